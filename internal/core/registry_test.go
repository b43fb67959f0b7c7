package core

import "testing"

func registryDef(t *testing.T, key, group string) SheetDefinition {
	t.Helper()
	return SheetDefinition{
		Info: SheetInfo{Key: key, Group: group, Label: key},
		Schema: MustBuildSchema(SchemaSpec{
			Name: key,
			Fragments: [][]FieldSchema{{
				{Header: "Name", Type: FieldString, Input: true},
			}},
		}),
	}
}

func TestRegister(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	Register(registryDef(t, "shifts", "work"))
	Register(registryDef(t, "expenses", "finance"))

	if SheetCount() != 2 {
		t.Errorf("SheetCount() = %d, want 2", SheetCount())
	}

	def, ok := Get("shifts")
	if !ok {
		t.Fatal("Get(shifts) not found")
	}
	if def.Info.Group != "work" {
		t.Errorf("Group = %q, want work", def.Info.Group)
	}

	if _, ok := Get("missing"); ok {
		t.Error("Get(missing) = ok, want not found")
	}
}

func TestRegister_DefaultsKeyAndLabel(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	Register(SheetDefinition{
		Schema: MustBuildSchema(SchemaSpec{
			Name: "Positions",
			Fragments: [][]FieldSchema{{
				{Header: "Symbol", Type: FieldString, Input: true},
			}},
		}),
	})

	def, ok := Get("Positions")
	if !ok {
		t.Fatal("key should default to the schema name")
	}
	if def.Info.Label != "Positions" {
		t.Errorf("Label = %q, want Positions", def.Info.Label)
	}
}

func TestRegister_PanicsOnDuplicate(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	Register(registryDef(t, "shifts", "work"))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register(registryDef(t, "shifts", "work"))
}

func TestRegister_PanicsOnNilSchema(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on nil schema")
		}
	}()
	Register(SheetDefinition{Info: SheetInfo{Key: "broken"}})
}

func TestAll_SortedByGroupThenKey(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	Register(registryDef(t, "trips", "work"))
	Register(registryDef(t, "positions", "finance"))
	Register(registryDef(t, "shifts", "work"))
	Register(registryDef(t, "expenses", "finance"))

	want := []string{"expenses", "positions", "shifts", "trips"}
	all := All()
	if len(all) != len(want) {
		t.Fatalf("All() = %d defs, want %d", len(all), len(want))
	}
	for i, def := range all {
		if def.Info.Key != want[i] {
			t.Errorf("All()[%d].Key = %q, want %q", i, def.Info.Key, want[i])
		}
	}
}

func TestByGroupAndGroups(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	Register(registryDef(t, "trips", "work"))
	Register(registryDef(t, "shifts", "work"))
	Register(registryDef(t, "expenses", "finance"))

	work := ByGroup("work")
	if len(work) != 2 || work[0].Info.Key != "shifts" || work[1].Info.Key != "trips" {
		t.Errorf("ByGroup(work) keys = %v", []string{work[0].Info.Key, work[1].Info.Key})
	}

	groups := Groups()
	if len(groups) != 2 || groups[0] != "finance" || groups[1] != "work" {
		t.Errorf("Groups() = %v, want [finance work]", groups)
	}

	if got := ByGroup("nope"); len(got) != 0 {
		t.Errorf("ByGroup(nope) = %v, want empty", got)
	}
}
