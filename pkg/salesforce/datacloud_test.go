package salesforce

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jaganpro/sf-schema-viewer/pkg/cache"
	apperrors "github.com/Jaganpro/sf-schema-viewer/pkg/errors"
	"github.com/Jaganpro/sf-schema-viewer/pkg/schema"
)

// newDataCloudStub serves the token exchange plus a caller-supplied
// metadata handler, and returns a client pointed at it.
func newDataCloudStub(t *testing.T, metadata http.HandlerFunc) (*httptest.Server, *DataCloudClient) {
	t.Helper()

	mux := http.NewServeMux()
	var base string
	mux.HandleFunc(dcTokenExchangePath, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.Form.Get("grant_type") != dcGrantType || r.Form.Get("subject_token") != "sf-token" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `{"access_token":"dc-token","instance_url":%q}`, base)
	})
	mux.HandleFunc(dcMetadataPath, metadata)

	srv := httptest.NewServer(mux)
	base = srv.URL
	t.Cleanup(srv.Close)

	client, err := NewDataCloudClient(srv.URL, "sf-token", WithDataCloudHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewDataCloudClient: %v", err)
	}
	return srv, client
}

func TestNewDataCloudClient_Validation(t *testing.T) {
	if _, err := NewDataCloudClient("ftp://bad", "token"); err == nil {
		t.Error("NewDataCloudClient should reject non-http instance URL")
	}
	if _, err := NewDataCloudClient("https://na1.salesforce.com", ""); err == nil {
		t.Error("NewDataCloudClient should require an access token")
	}
}

func TestDataCloudListEntities(t *testing.T) {
	_, client := newDataCloudStub(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer dc-token" {
			t.Errorf("Authorization = %q, want exchanged token", got)
		}
		if got := r.URL.Query().Get("entityType"); got != schema.DataCloudEntityTypeDMO {
			t.Errorf("entityType = %q", got)
		}
		fmt.Fprint(w, `{"metadata":[
			{"name":"UnifiedIndividual__dlm","displayName":"Unified Individual","entityType":"DataModelObject"},
			{"name":"Sales_Order__dlm"}
		]}`)
	})

	entities, err := client.ListEntities(context.Background(), schema.DataCloudEntityTypeDMO)
	if err != nil {
		t.Fatalf("ListEntities: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("got %d entities, want 2", len(entities))
	}
	if entities[0].Name != "UnifiedIndividual__dlm" {
		t.Errorf("entities[0] = %+v", entities[0])
	}
	// Missing display name and entity type fall back to the name and the
	// requested filter.
	if entities[1].DisplayName != "Sales_Order__dlm" || entities[1].EntityType != schema.DataCloudEntityTypeDMO {
		t.Errorf("entities[1] = %+v", entities[1])
	}
}

func TestDataCloudListEntities_InvalidType(t *testing.T) {
	_, client := newDataCloudStub(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be reached for an invalid entity type")
	})

	_, err := client.ListEntities(context.Background(), "Widget")
	if apperrors.GetCode(err) != apperrors.ErrCodeInvalidInput {
		t.Errorf("err = %v, want invalid input code", err)
	}
}

func TestDataCloudListEntities_QueriesBothTypes(t *testing.T) {
	var seen []string
	_, client := newDataCloudStub(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Query().Get("entityType"))
		fmt.Fprint(w, `{"metadata":[]}`)
	})

	if _, err := client.ListEntities(context.Background(), ""); err != nil {
		t.Fatalf("ListEntities: %v", err)
	}
	if len(seen) != 2 || seen[0] != schema.DataCloudEntityTypeDMO || seen[1] != schema.DataCloudEntityTypeDLO {
		t.Errorf("queried types = %v, want DMO then DLO", seen)
	}
}

func TestDataCloudListEntities_CacheHit(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	var base string
	mux.HandleFunc(dcTokenExchangePath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"access_token":"dc-token","instance_url":%q}`, base)
	})
	mux.HandleFunc(dcMetadataPath, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"metadata":[{"name":"Account_Home__dll","entityType":"DataLakeObject"}]}`)
	})
	srv := httptest.NewServer(mux)
	base = srv.URL
	defer srv.Close()

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client, err := NewDataCloudClient(srv.URL, "sf-token",
		WithDataCloudHTTPClient(srv.Client()),
		WithDataCloudCache(store, cache.NewDefaultKeyer()))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := client.ListEntities(ctx, schema.DataCloudEntityTypeDLO); err != nil {
		t.Fatalf("first list: %v", err)
	}
	if _, err := client.ListEntities(ctx, schema.DataCloudEntityTypeDLO); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if calls != 1 {
		t.Errorf("metadata hit %d times, want 1 (second call should be cached)", calls)
	}
}

func TestDataCloudDescribeEntity(t *testing.T) {
	_, client := newDataCloudStub(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("entityName"); got != "Sales_Order__dlm" {
			t.Errorf("entityName = %q", got)
		}
		fmt.Fprint(w, `{"metadata":[{
			"name": "Sales_Order__dlm",
			"entityType": "DataModelObject",
			"fields": [
				{"name": "Id__c", "dataType": "text", "isPrimaryKey": true},
				{"name": "Individual_Id__c", "type": "text", "isForeignKey": true, "referenceTo": "UnifiedIndividual__dlm"}
			]
		}]}`)
	})

	d, err := client.DescribeEntity(context.Background(), "Sales_Order__dlm")
	if err != nil {
		t.Fatalf("DescribeEntity: %v", err)
	}
	if len(d.Fields) != 2 {
		t.Fatalf("fields = %+v", d.Fields)
	}
	if len(d.PrimaryKeys) != 1 || d.PrimaryKeys[0] != "Id__c" {
		t.Errorf("PrimaryKeys = %v", d.PrimaryKeys)
	}
	// The legacy "type" alias still populates DataType.
	if f := d.Field("Individual_Id__c"); f == nil || f.DataType != "text" {
		t.Errorf("Individual_Id__c = %+v", f)
	}
	if len(d.Relationships) != 1 || d.Relationships[0].ToEntity != "UnifiedIndividual__dlm" {
		t.Errorf("Relationships = %+v, want derived foreign key relationship", d.Relationships)
	}
}

func TestDataCloudDescribeEntity_NotFound(t *testing.T) {
	_, client := newDataCloudStub(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"metadata":[]}`)
	})

	_, err := client.DescribeEntity(context.Background(), "Bogus__dlm")
	if apperrors.GetCode(err) != apperrors.ErrCodeObjectNotFound {
		t.Errorf("err = %v, want object not found code", err)
	}
}

func TestDataCloudDescribeEntities_PartialFailure(t *testing.T) {
	_, client := newDataCloudStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("entityName") == "Bogus__dlm" {
			fmt.Fprint(w, `{"metadata":[]}`)
			return
		}
		fmt.Fprint(w, `{"metadata":[{"name":"Sales_Order__dlm","entityType":"DataModelObject","fields":[]}]}`)
	})

	result, err := client.DescribeEntities(context.Background(), []string{"Sales_Order__dlm", "Bogus__dlm"})
	if err != nil {
		t.Fatalf("DescribeEntities: %v", err)
	}
	if len(result.Results) != 1 {
		t.Errorf("got %d results, want 1", len(result.Results))
	}
	if _, ok := result.Errors["Bogus__dlm"]; !ok {
		t.Errorf("Errors = %v, want entry for Bogus__dlm", result.Errors)
	}
}

func TestDataCloudCheckEnabled(t *testing.T) {
	_, client := newDataCloudStub(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"metadata":[]}`)
	})

	enabled, err := client.CheckEnabled(context.Background())
	if err != nil || !enabled {
		t.Errorf("CheckEnabled = %v, %v; want true, nil", enabled, err)
	}
}

func TestDataCloudCheckEnabled_NotProvisioned(t *testing.T) {
	// Orgs without Data Cloud reject the token exchange outright.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewDataCloudClient(srv.URL, "sf-token", WithDataCloudHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	enabled, err := client.CheckEnabled(context.Background())
	if err != nil || enabled {
		t.Errorf("CheckEnabled = %v, %v; want false, nil", enabled, err)
	}
}

func TestTransformEntity_PrimaryKeyFallback(t *testing.T) {
	raw := dcEntityPayload{
		Name: "Order__dll",
		Fields: []dcFieldPayload{
			{DataCloudFieldInfo: schema.DataCloudFieldInfo{Name: "OrderId__c", DataType: "text"}},
		},
		PrimaryKeys: []dcPrimaryKey{{Name: "OrderId__c"}},
	}

	d := transformEntity(raw)
	if len(d.PrimaryKeys) != 1 || d.PrimaryKeys[0] != "OrderId__c" {
		t.Errorf("PrimaryKeys = %v, want fallback from primaryKeys list", d.PrimaryKeys)
	}
	if d.EntityType != schema.DataCloudEntityTypeDMO {
		t.Errorf("EntityType = %q, want DMO default", d.EntityType)
	}
}

func TestTransformEntity_KeepsDeclaredRelationship(t *testing.T) {
	raw := dcEntityPayload{
		Name: "Sales_Order__dlm",
		Fields: []dcFieldPayload{
			{DataCloudFieldInfo: schema.DataCloudFieldInfo{
				Name: "Individual_Id__c", DataType: "text",
				ForeignKey: true, ReferenceTo: "UnifiedIndividual__dlm",
			}},
		},
		Relationships: []schema.DataCloudRelationshipInfo{{
			Name:      "Individual_Id__c_rel",
			FromField: "Individual_Id__c",
			ToEntity:  "UnifiedIndividual__dlm",
			ToField:   "Id__c",
		}},
	}

	d := transformEntity(raw)
	if len(d.Relationships) != 1 {
		t.Fatalf("Relationships = %+v, declared relationship should not be duplicated", d.Relationships)
	}
	if d.Relationships[0].ToField != "Id__c" {
		t.Errorf("declared relationship was replaced: %+v", d.Relationships[0])
	}
}
