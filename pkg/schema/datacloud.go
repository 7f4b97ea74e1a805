package schema

// Data Cloud entity types reported by the Metadata API. Data Lake
// Objects (DLOs) hold ingested raw data; Data Model Objects (DMOs) are
// the harmonized model built on top of them.
const (
	DataCloudEntityTypeDLO = "DataLakeObject"
	DataCloudEntityTypeDMO = "DataModelObject"
)

// DataCloudFieldInfo is one field of a Data Cloud entity. JSON tags
// match the Metadata API wire names so the structs decode directly.
type DataCloudFieldInfo struct {
	Name         string `json:"name" bson:"name"`
	DisplayName  string `json:"displayName,omitempty" bson:"display_name,omitempty"`
	DataType     string `json:"dataType" bson:"data_type"`
	PrimaryKey   bool   `json:"isPrimaryKey,omitempty" bson:"primary_key,omitempty"`
	ForeignKey   bool   `json:"isForeignKey,omitempty" bson:"foreign_key,omitempty"`
	Required     bool   `json:"isRequired,omitempty" bson:"required,omitempty"`
	ReferenceTo  string `json:"referenceTo,omitempty" bson:"reference_to,omitempty"`
	KeyQualifier string `json:"keyQualifier,omitempty" bson:"key_qualifier,omitempty"`
	Description  string `json:"description,omitempty" bson:"description,omitempty"`
	Length       int    `json:"length,omitempty" bson:"length,omitempty"`
	Precision    int    `json:"precision,omitempty" bson:"precision,omitempty"`
	Scale        int    `json:"scale,omitempty" bson:"scale,omitempty"`
}

// DataCloudRelationshipInfo is one relationship between Data Cloud
// entities, either declared by the API or derived from a foreign key
// field. ToField may be empty, in which case the target's primary key
// is implied.
type DataCloudRelationshipInfo struct {
	Name             string `json:"name" bson:"name"`
	FromField        string `json:"fromField" bson:"from_field"`
	ToEntity         string `json:"toEntity" bson:"to_entity"`
	ToField          string `json:"toField,omitempty" bson:"to_field,omitempty"`
	RelationshipType string `json:"relationshipType,omitempty" bson:"relationship_type,omitempty"`
}

// DataCloudEntityBasicInfo is one entry from the entity listing: enough
// to populate a picker without fetching field metadata.
type DataCloudEntityBasicInfo struct {
	Name        string `json:"name" bson:"name"`
	DisplayName string `json:"displayName,omitempty" bson:"display_name,omitempty"`
	EntityType  string `json:"entityType" bson:"entity_type"`
	Category    string `json:"category,omitempty" bson:"category,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Standard    bool   `json:"isStandard,omitempty" bson:"standard,omitempty"`
}

// DataCloudEntityDescribe is the full describe for one entity.
type DataCloudEntityDescribe struct {
	Name          string                      `json:"name" bson:"name"`
	DisplayName   string                      `json:"displayName,omitempty" bson:"display_name,omitempty"`
	EntityType    string                      `json:"entityType" bson:"entity_type"`
	Category      string                      `json:"category,omitempty" bson:"category,omitempty"`
	Description   string                      `json:"description,omitempty" bson:"description,omitempty"`
	Standard      bool                        `json:"isStandard,omitempty" bson:"standard,omitempty"`
	Fields        []DataCloudFieldInfo        `json:"fields" bson:"fields"`
	Relationships []DataCloudRelationshipInfo `json:"relationships,omitempty" bson:"relationships,omitempty"`
	PrimaryKeys   []string                    `json:"primaryKeys,omitempty" bson:"primary_keys,omitempty"`
}

// Field returns the field with the given name, or nil.
func (d *DataCloudEntityDescribe) Field(name string) *DataCloudFieldInfo {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// DataCloudBatchResult holds the outcome of describing multiple
// entities: the successful describes plus per-entity error messages.
type DataCloudBatchResult struct {
	Results []DataCloudEntityDescribe `json:"entities" bson:"entities"`
	Errors  map[string]string         `json:"errors,omitempty" bson:"errors,omitempty"`
}
