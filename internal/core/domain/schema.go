package domain

// Field describes one column of the dump.
type Field struct {
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	Nullable bool   `json:"nullable,omitzero"`
	Required bool   `json:"required,omitzero"`
	// Extra marks a column the schema does not know about. Its cells are kept verbatim.
	Extra bool `json:"extra,omitzero"`
}

// Schema is a versioned, ordered list of the columns produced by the upstream dump query.
// The version has to be bumped whenever the query changes its column list.
type Schema struct {
	Version int
	Fields  []Field
}

// Dump column names for schema version 1.
const (
	FieldJobID               = "job_id"
	FieldCreatedAt           = "created_at"
	FieldOrgID               = "org_id"
	FieldAccountNumber       = "account_number"
	FieldImageType           = "image_type"
	FieldBlueprintVersion    = "blueprint_version"
	FieldPackages            = "packages"
	FieldFilesystem          = "filesystem"
	FieldPayloadRepositories = "payload_repositories"
)

// SchemaV1 is the column layout of the weekly build dump, version 1.
var SchemaV1 = Schema{
	Version: 1,
	Fields: []Field{
		{Name: FieldJobID, Kind: KindString, Required: true},
		{Name: FieldCreatedAt, Kind: KindTime, Nullable: true},
		{Name: FieldOrgID, Kind: KindString, Required: true},
		{Name: FieldAccountNumber, Kind: KindString, Nullable: true},
		{Name: FieldImageType, Kind: KindString, Required: true},
		{Name: FieldBlueprintVersion, Kind: KindInt, Nullable: true},
		{Name: FieldPackages, Kind: KindList},
		{Name: FieldFilesystem, Kind: KindList},
		{Name: FieldPayloadRepositories, Kind: KindList},
	},
}

// CurrentSchema is the dump layout this build understands.
var CurrentSchema = SchemaV1

// Lookup returns the schema field with the given name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ExtraField returns the column definition used for a column the schema does not know.
func ExtraField(name string) Field {
	return Field{Name: name, Kind: KindString, Nullable: true, Extra: true}
}
