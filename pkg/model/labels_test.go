package model_test

import (
	"testing"

	"github.com/goliatone/go-surveykit/pkg/model"
)

func TestDeriveLabel(t *testing.T) {
	cases := []struct {
		id   string
		want string
	}{
		{"companyName", "Company Name"},
		{"rawMaterialSource", "Raw Material Source"},
		{"primary_location", "Primary Location"},
		{"volume2023", "Volume 2023"},
		{"2025Targets", "2025 Targets"},
		{"facility-state", "Facility State"},
		{"plain", "Plain"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := model.DeriveLabel(tc.id); got != tc.want {
			t.Errorf("DeriveLabel(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestSchemaLabelPrefersDictionary(t *testing.T) {
	schema := model.Schema{
		Labels: map[string]string{"operationalYears": "Years in Operation"},
	}

	if got := schema.Label("operationalYears"); got != "Years in Operation" {
		t.Fatalf("dictionary label = %q", got)
	}
	if got := schema.Label("storageCapacity"); got != "Storage Capacity" {
		t.Fatalf("derived label = %q", got)
	}
}
