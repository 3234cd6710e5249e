package naming

import "testing"

func TestInterfaceNameIsUpperCamel(t *testing.T) {
	if got := InterfaceName("browserType"); got != "BrowserType" {
		t.Fatalf("InterfaceName(browserType) = %q, want BrowserType", got)
	}
}

func TestMemberNameIsExported(t *testing.T) {
	if got := MemberName("waitForSelector"); got != "WaitForSelector" {
		t.Fatalf("MemberName(waitForSelector) = %q, want WaitForSelector", got)
	}
}

func TestArgNameIsUnexported(t *testing.T) {
	got := ArgName("ExecutablePath")
	if got == "" || got[0] < 'a' || got[0] > 'z' {
		t.Fatalf("ArgName(ExecutablePath) = %q, want a lowercase-leading identifier", got)
	}
}

func TestWireNamePreservesCasing(t *testing.T) {
	if got := WireName("waitForSelector"); got != "waitForSelector" {
		t.Fatalf("WireName must not alter casing, got %q", got)
	}
}

func TestEnumVariantsPreserveWireSpellingVerbatim(t *testing.T) {
	variants := EnumVariants("WaitUntil", []string{"load", "domcontentloaded", "networkidle"})
	if len(variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(variants))
	}
	for i, want := range []string{"load", "domcontentloaded", "networkidle"} {
		if variants[i].Wire != want {
			t.Fatalf("variant %d wire = %q, want %q", i, variants[i].Wire, want)
		}
		if variants[i].GoName == "" {
			t.Fatalf("variant %d has empty GoName", i)
		}
	}
	// distinct literals must not collide on GoName
	seen := make(map[string]bool)
	for _, v := range variants {
		if seen[v.GoName] {
			t.Fatalf("duplicate GoName %q across variants", v.GoName)
		}
		seen[v.GoName] = true
	}
}

func TestHoistedTypeNameScopesByOwner(t *testing.T) {
	a := HoistedTypeName("goto", "Options")
	b := HoistedTypeName("screenshot", "Options")
	if a == b {
		t.Fatalf("expected distinct hoisted names for distinct owners, got %q for both", a)
	}
}
