package notnil

import (
	"testing"

	"trainboard/src/oracle/oracletest"
)

func TestOracle(t *testing.T) {
	oracletest.Run(t, New())
}

func TestCastlingDestination(t *testing.T) {
	o := New()
	pos := oracletest.MustParse(t, o, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	got, err := o.LegalDestinations(pos, oracletest.Sq(t, "e1"))
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, s := range got {
		found[s.String()] = true
	}
	if !found["g1"] || !found["c1"] {
		t.Errorf("castling squares missing from %v", got)
	}
}
