package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("test-idx").
		Prefix("doc:").
		Tag("category").
		Numeric("price").
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name != "test-idx" {
		t.Errorf("name = %q, want test-idx", idx.Name)
	}
	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Name != "category" || idx.Fields[0].Type != IndexFieldTag {
		t.Errorf("field[0] = %+v, want category TAG", idx.Fields[0])
	}
	if idx.Fields[1].Name != "price" || idx.Fields[1].Type != IndexFieldNumeric {
		t.Errorf("field[1] = %+v, want price NUMERIC", idx.Fields[1])
	}
}

func TestIndexBuilder_JSONPathsWithAliases(t *testing.T) {
	idx := NewIndex("mentors-idx").
		OnJSON().
		Prefix("mentor:").
		WeightedText("$.name", 3).As("name").
		Tag("$.skills[*]").As("skills").
		Numeric("$.created_at").As("created_at").Sortable().
		MustBuild()

	if idx.StorageType != StorageJSON {
		t.Errorf("storage = %q, want JSON", idx.StorageType)
	}
	if got := idx.Fields[0].Ident(); got != "name" {
		t.Errorf("field[0].Ident() = %q, want name", got)
	}
	if idx.Fields[0].TextWeight != 3 {
		t.Errorf("weight = %v, want 3", idx.Fields[0].TextWeight)
	}
	if idx.Fields[1].Sortable {
		t.Error("Sortable must only apply to the last field")
	}
	if !idx.Fields[2].Sortable {
		t.Error("expected created_at SORTABLE")
	}
}

func TestIndexBuilder_ModifiersWithoutField(t *testing.T) {
	b := NewIndex("idx").As("x").Sortable()
	if _, err := b.Build(); err == nil {
		t.Fatal("expected error: modifiers must not create fields")
	}
}

func TestIndexBuilder_TagOptions(t *testing.T) {
	idx := NewIndex("tag-idx").
		Prefix("t:").
		TagWithOpts("tags", "|", true).
		MustBuild()

	f := idx.Fields[0]
	if f.TagSeparator != "|" {
		t.Errorf("separator = %q, want |", f.TagSeparator)
	}
	if !f.TagCaseSensitive {
		t.Error("expected TagCaseSensitive=true")
	}
}

func TestIndexBuilder_MultiplePrefixes(t *testing.T) {
	idx := NewIndex("multi-idx").
		Prefix("a:", "b:", "c:").
		Tag("x").
		MustBuild()

	if len(idx.Prefixes) != 3 {
		t.Errorf("prefix count = %d, want 3", len(idx.Prefixes))
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() (*IndexDefinition, error)
		wantErr string
	}{
		{
			name: "empty name",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("").Tag("x").Build()
			},
			wantErr: "index name is required",
		},
		{
			name: "no fields",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Build()
			},
			wantErr: "at least one field",
		},
		{
			name: "negative weight",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").WeightedText("bio", -1).Build()
			},
			wantErr: "weight",
		},
		{
			name: "invalid characters",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx with spaces").Tag("x").Build()
			},
			wantErr: "invalid characters",
		},
		{
			name: "duplicate alias",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Tag("$.a").As("x").Numeric("$.b").As("x").Build()
			},
			wantErr: "duplicate field name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("my-idx").
		Prefix("doc:").
		Tag("cat").
		WeightedText("title", 2).
		Numeric("ts").Sortable().
		MustBuild()

	s := idx.String()
	if !strings.HasPrefix(s, "FT.CREATE ") {
		t.Errorf("expected FT.CREATE prefix, got %q", s)
	}
	if !strings.Contains(s, "my-idx") {
		t.Error("missing index name in string output")
	}
	if !strings.Contains(s, "title TEXT WEIGHT 2") {
		t.Errorf("missing weighted text in %q", s)
	}
	if !strings.HasSuffix(s, "ts NUMERIC SORTABLE") {
		t.Errorf("missing sortable numeric in %q", s)
	}
}

func TestIndexDefinition_WithoutTextFields(t *testing.T) {
	idx := NewIndex("idx").
		Prefix("p:").
		Text("name").
		Tag("skills").
		Text("bio").
		MustBuild()

	if !idx.HasTextFields() {
		t.Fatal("expected text fields")
	}
	stripped := idx.WithoutTextFields()
	if stripped.HasTextFields() {
		t.Error("stripped definition still has text fields")
	}
	if len(stripped.Fields) != 1 || stripped.Fields[0].Name != "skills" {
		t.Errorf("stripped fields = %+v", stripped.Fields)
	}
	if len(idx.Fields) != 3 {
		t.Error("original definition was mutated")
	}
}

func TestIndexBuilder_DuplicateFields(t *testing.T) {
	idx := &IndexDefinition{
		Name: "dup-idx",
		Fields: []IndexField{
			{Name: "field1", Type: IndexFieldTag},
			{Name: "field1", Type: IndexFieldNumeric},
		},
	}

	if err := idx.Validate(); err == nil {
		t.Fatal("expected error for duplicate fields")
	}
}
