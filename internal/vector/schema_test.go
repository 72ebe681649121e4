package vector

import (
	"context"
	"testing"

	"github.com/weaviate/weaviate/entities/models"
)

type MockSchemaClient struct {
	CreatedClass    *models.Class
	ExistingClass   *models.Class
	AddedProperties []*models.Property
}

func (m *MockSchemaClient) ClassExists(ctx context.Context, className string) (bool, error) {
	if m.ExistingClass != nil {
		return true, nil
	}
	return false, nil
}

func (m *MockSchemaClient) CreateClass(ctx context.Context, class *models.Class) error {
	m.CreatedClass = class
	return nil
}

func (m *MockSchemaClient) GetClass(ctx context.Context, className string) (*models.Class, error) {
	return m.ExistingClass, nil
}

func (m *MockSchemaClient) AddProperty(ctx context.Context, className string, property *models.Property) error {
	m.AddedProperties = append(m.AddedProperties, property)
	return nil
}

func TestEnsureSchema_CreatesClass(t *testing.T) {
	client := &MockSchemaClient{}
	if err := EnsureSchema(context.Background(), client); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	if client.CreatedClass == nil {
		t.Fatal("Class not created")
	}
	if client.CreatedClass.Class != ClassName {
		t.Errorf("unexpected class name %s", client.CreatedClass.Class)
	}
	if client.CreatedClass.Vectorizer != "none" {
		t.Errorf("vectorizer should be none, got %s", client.CreatedClass.Vectorizer)
	}

	cfg, ok := client.CreatedClass.VectorIndexConfig.(map[string]interface{})
	if !ok || cfg["distance"] != "cosine" {
		t.Errorf("similarity metric must be cosine, got %v", client.CreatedClass.VectorIndexConfig)
	}

	wantProps := map[string]string{
		"content":   "text",
		"sourceId":  "string",
		"vectorId":  "string",
		"namespace": "string",
	}
	for _, prop := range client.CreatedClass.Properties {
		expectedType, ok := wantProps[prop.Name]
		if !ok {
			t.Errorf("unexpected property %s", prop.Name)
			continue
		}
		if len(prop.DataType) == 0 || prop.DataType[0] != expectedType {
			t.Errorf("property %s has wrong DataType: %v (expected %s)", prop.Name, prop.DataType, expectedType)
		}
		delete(wantProps, prop.Name)
	}
	if len(wantProps) > 0 {
		t.Errorf("missing properties: %v", wantProps)
	}
}

func TestEnsureSchema_ExistingClassIsNoOp(t *testing.T) {
	client := &MockSchemaClient{
		ExistingClass: &models.Class{
			Class: ClassName,
			Properties: []*models.Property{
				{Name: "content", DataType: []string{"text"}},
				{Name: "sourceId", DataType: []string{"string"}},
				{Name: "vectorId", DataType: []string{"string"}},
				{Name: "namespace", DataType: []string{"string"}},
			},
		},
	}

	if err := EnsureSchema(context.Background(), client); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	if client.CreatedClass != nil {
		t.Error("class recreated despite existing")
	}
	if len(client.AddedProperties) != 0 {
		t.Errorf("no properties should be added, got %v", client.AddedProperties)
	}
}

func TestEnsureSchema_AddsMissingProperties(t *testing.T) {
	client := &MockSchemaClient{
		ExistingClass: &models.Class{
			Class: ClassName,
			Properties: []*models.Property{
				{Name: "content", DataType: []string{"text"}},
				{Name: "sourceId", DataType: []string{"string"}},
			},
		},
	}

	if err := EnsureSchema(context.Background(), client); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	if len(client.AddedProperties) != 2 {
		t.Fatalf("expected 2 added properties, got %d", len(client.AddedProperties))
	}
}
