// Package schema defines Salesforce object metadata types and turns a set
// of object describes into a diagram model.
//
// The types mirror the relevant subset of the Salesforce REST describe
// payloads (global describe and per-object describe). JSON tags match the
// wire names so the structs decode directly from the API; bson tags allow
// cached describes to live in MongoDB unchanged.
package schema

// ObjectBasicInfo is one entry from the global describe: enough to list
// and filter objects without fetching full field metadata.
type ObjectBasicInfo struct {
	Name        string `json:"name" bson:"name"`
	Label       string `json:"label" bson:"label"`
	LabelPlural string `json:"labelPlural" bson:"label_plural"`
	KeyPrefix   string `json:"keyPrefix,omitempty" bson:"key_prefix,omitempty"`
	Custom      bool   `json:"custom" bson:"custom"`
	Queryable   bool   `json:"queryable" bson:"queryable"`
	Createable  bool   `json:"createable" bson:"createable"`
	Updateable  bool   `json:"updateable" bson:"updateable"`
	Deletable   bool   `json:"deletable" bson:"deletable"`
}

// FieldInfo is one field from an object describe.
//
// RelationshipOrder distinguishes reference field flavors: nil for lookup
// fields, 0 or 1 for master-detail fields (the primary and secondary
// master in a junction object).
type FieldInfo struct {
	Name              string   `json:"name" bson:"name"`
	Label             string   `json:"label" bson:"label"`
	Type              string   `json:"type" bson:"type"`
	Length            int      `json:"length,omitempty" bson:"length,omitempty"`
	Precision         int      `json:"precision,omitempty" bson:"precision,omitempty"`
	Scale             int      `json:"scale,omitempty" bson:"scale,omitempty"`
	Nillable          bool     `json:"nillable" bson:"nillable"`
	Unique            bool     `json:"unique,omitempty" bson:"unique,omitempty"`
	Custom            bool     `json:"custom" bson:"custom"`
	ExternalID        bool     `json:"externalId,omitempty" bson:"external_id,omitempty"`
	ReferenceTo       []string `json:"referenceTo,omitempty" bson:"reference_to,omitempty"`
	RelationshipName  string   `json:"relationshipName,omitempty" bson:"relationship_name,omitempty"`
	RelationshipOrder *int     `json:"relationshipOrder,omitempty" bson:"relationship_order,omitempty"`
	PicklistValues    []string `json:"picklistValues,omitempty" bson:"picklist_values,omitempty"`
	Calculated        bool     `json:"calculated,omitempty" bson:"calculated,omitempty"`
	Formula           string   `json:"calculatedFormula,omitempty" bson:"formula,omitempty"`
}

// IsReference reports whether the field points at other objects.
func (f *FieldInfo) IsReference() bool {
	return f.Type == "reference" && len(f.ReferenceTo) > 0
}

// IsMasterDetail reports whether the field is a master-detail reference.
// Master-detail fields carry a relationshipOrder; lookups do not.
func (f *FieldInfo) IsMasterDetail() bool {
	return f.RelationshipOrder != nil
}

// RelationshipInfo is one child relationship from an object describe:
// the inverse view of a reference field on the child object.
type RelationshipInfo struct {
	ChildObject      string `json:"childSObject" bson:"child_object"`
	Field            string `json:"field" bson:"field"`
	RelationshipName string `json:"relationshipName,omitempty" bson:"relationship_name,omitempty"`
	CascadeDelete    bool   `json:"cascadeDelete" bson:"cascade_delete"`
}

// ObjectDescribe is the full describe for a single object.
type ObjectDescribe struct {
	Name               string             `json:"name" bson:"name"`
	Label              string             `json:"label" bson:"label"`
	LabelPlural        string             `json:"labelPlural" bson:"label_plural"`
	KeyPrefix          string             `json:"keyPrefix,omitempty" bson:"key_prefix,omitempty"`
	Custom             bool               `json:"custom" bson:"custom"`
	Fields             []FieldInfo        `json:"fields" bson:"fields"`
	ChildRelationships []RelationshipInfo `json:"childRelationships,omitempty" bson:"child_relationships,omitempty"`
}

// Field returns the field with the given API name, or nil.
func (d *ObjectDescribe) Field(name string) *FieldInfo {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// BatchResult holds the outcome of describing multiple objects: the
// successful describes plus per-object error messages for the rest.
type BatchResult struct {
	Results []ObjectDescribe  `json:"results" bson:"results"`
	Errors  map[string]string `json:"errors,omitempty" bson:"errors,omitempty"`
}
