package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Jaganpro/sf-schema-viewer/pkg/cache"
	apperrors "github.com/Jaganpro/sf-schema-viewer/pkg/errors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "test-token", WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return srv, client
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient("ftp://bad", "token"); err == nil {
		t.Error("NewClient should reject non-http instance URL")
	}
	if _, err := NewClient("https://na1.salesforce.com", ""); err == nil {
		t.Error("NewClient should require an access token")
	}
}

func TestListObjects(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/services/data/v59.0/sobjects" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"sobjects": []map[string]any{
				{"name": "Account", "label": "Account", "queryable": true},
				{"name": "Contact", "label": "Contact", "queryable": true},
			},
		})
	})

	objects, err := client.ListObjects(context.Background())
	if err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	if len(objects) != 2 || objects[0].Name != "Account" {
		t.Errorf("objects = %+v", objects)
	}
}

func TestDescribeObject(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/services/data/v59.0/sobjects/Account/describe" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"name":  "Account",
			"label": "Account",
			"fields": []map[string]any{
				{"name": "Id", "label": "Account ID", "type": "id", "nillable": false, "custom": false},
				{
					"name": "ParentId", "label": "Parent", "type": "reference",
					"nillable": true, "custom": false, "referenceTo": []string{"Account"},
				},
			},
		})
	})

	d, err := client.DescribeObject(context.Background(), "Account")
	if err != nil {
		t.Fatalf("DescribeObject: %v", err)
	}
	if d.Name != "Account" || len(d.Fields) != 2 {
		t.Errorf("describe = %+v", d)
	}
	if !d.Fields[1].IsReference() {
		t.Error("ParentId should be a reference field")
	}
}

func TestDescribeObject_InvalidName(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be reached for invalid names")
	})

	_, err := client.DescribeObject(context.Background(), "../Account")
	if apperrors.GetCode(err) != apperrors.ErrCodeInvalidObject {
		t.Errorf("err = %v, want invalid object code", err)
	}
}

func TestDescribeObject_NotFound(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`[{"errorCode":"NOT_FOUND","message":"The requested resource does not exist"}]`))
	})

	_, err := client.DescribeObject(context.Background(), "Bogus__c")
	if apperrors.GetCode(err) != apperrors.ErrCodeObjectNotFound {
		t.Errorf("err = %v, want object not found code", err)
	}
	if !strings.Contains(err.Error(), "Bogus__c") {
		t.Errorf("error should name the missing object, got %q", err)
	}
}

func TestDescribeObject_SessionExpired(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`[{"errorCode":"INVALID_SESSION_ID"}]`))
	})

	_, err := client.DescribeObject(context.Background(), "Account")
	if apperrors.GetCode(err) != apperrors.ErrCodeSessionExpired {
		t.Errorf("err = %v, want session expired code", err)
	}
}

func TestDescribeObjects_PartialFailure(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/services/data/v59.0/sobjects/Bogus__c/describe" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`[{"errorCode":"NOT_FOUND"}]`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"name": "Account", "label": "Account", "fields": []any{}})
	})

	result, err := client.DescribeObjects(context.Background(), []string{"Account", "Bogus__c"})
	if err != nil {
		t.Fatalf("DescribeObjects: %v", err)
	}
	if len(result.Results) != 1 {
		t.Errorf("got %d results, want 1", len(result.Results))
	}
	if _, ok := result.Errors["Bogus__c"]; !ok {
		t.Errorf("Errors = %v, want entry for Bogus__c", result.Errors)
	}
}

func TestDescribeObject_CacheHit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{"name": "Account", "label": "Account", "fields": []any{}})
	}))
	defer srv.Close()

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client, err := NewClient(srv.URL, "test-token",
		WithHTTPClient(srv.Client()),
		WithCache(store, cache.NewDefaultKeyer()))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := client.DescribeObject(ctx, "Account"); err != nil {
		t.Fatalf("first describe: %v", err)
	}
	if _, err := client.DescribeObject(ctx, "Account"); err != nil {
		t.Fatalf("second describe: %v", err)
	}
	if calls != 1 {
		t.Errorf("server hit %d times, want 1 (second call should be cached)", calls)
	}
}

func TestAPIVersions(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/services/data/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]map[string]string{
			{"label": "Summer '24", "version": "59.0", "url": "/services/data/v59.0"},
		})
	})

	versions, err := client.APIVersions(context.Background())
	if err != nil {
		t.Fatalf("APIVersions: %v", err)
	}
	if len(versions) != 1 || versions[0].Version != "59.0" {
		t.Errorf("versions = %+v", versions)
	}
}

func TestReleaseLabel(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"v59.0", "Summer '24"},
		{"59.0", "Summer '24"},
		{"65.0", "Winter '26"},
		{"42.0", "v42.0"},
	}
	for _, tt := range tests {
		if got := ReleaseLabel(tt.version); got != tt.want {
			t.Errorf("ReleaseLabel(%q) = %q, want %q", tt.version, got, tt.want)
		}
	}
}
