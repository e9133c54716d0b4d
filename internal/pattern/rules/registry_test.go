package rules

import (
	"testing"
)

func TestBuiltinRegistersAllRules(t *testing.T) {
	reg := Builtin()

	want := []string{"doji", "dragonback20", "harami", "qiankun", "qinlong", "resonance", "shouban", "strongsignal"}
	got := reg.List()
	if len(got) != len(want) {
		t.Fatalf("registered rules: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rule %d: got %s, want %s (List must sort)", i, got[i], want[i])
		}
	}
}

func TestRegistryGet(t *testing.T) {
	reg := Builtin()

	rule, ok := reg.Get("doji")
	if !ok || rule.Name != "doji" {
		t.Fatalf("Get(doji): %v, %v", rule, ok)
	}
	if _, ok := reg.Get("unknown"); ok {
		t.Error("Get on an unknown name must report absence")
	}
}

func TestBuiltinRuleShapes(t *testing.T) {
	reg := Builtin()

	for _, name := range reg.List() {
		rule, _ := reg.Get(name)
		if rule.MinHistory <= 0 {
			t.Errorf("%s: MinHistory must be positive", name)
		}
		if len(rule.Terms) == 0 {
			t.Errorf("%s: a rule with no scoring terms can never rank", name)
		}
		if len(rule.Tiers) == 0 {
			t.Errorf("%s: missing advisory tiers", name)
		}
		for i := 1; i < len(rule.Tiers); i++ {
			if rule.Tiers[i].MinScore >= rule.Tiers[i-1].MinScore {
				t.Errorf("%s: tiers must be declared strongest first", name)
			}
		}
	}

	weekly, _ := reg.Get("resonance")
	if !weekly.Weekly {
		t.Error("resonance must evaluate on weekly bars")
	}
}
