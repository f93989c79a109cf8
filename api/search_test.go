package api

import (
	"testing"

	"github.com/unionhall/dues-engine/reconcile"
)

func directory(names ...string) []reconcile.Member {
	out := make([]reconcile.Member, len(names))
	for i, n := range names {
		out[i] = reconcile.Member{ID: reconcile.MemberID(n), FullName: n}
	}
	return out
}

func namesOf(members []reconcile.Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.FullName
	}
	return out
}

func TestRankMembers_PrefixBeatsSubstringBeatsFuzzy(t *testing.T) {
	members := directory("Kwame Mensah", "Ama Mensah", "Mensa Otabil")

	got := namesOf(rankMembers(members, "mensa"))
	want := []string{"Mensa Otabil", "Kwame Mensah", "Ama Mensah"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRankMembers_TypoWithinDistance(t *testing.T) {
	members := directory("Kofi Boateng", "Yaw Owusu")

	got := rankMembers(members, "boateng")
	if len(got) != 1 || got[0].FullName != "Kofi Boateng" {
		t.Fatalf("substring: got %v", namesOf(got))
	}

	got = rankMembers(members, "botaeng") // transposition, distance 2
	if len(got) != 1 || got[0].FullName != "Kofi Boateng" {
		t.Fatalf("typo: got %v", namesOf(got))
	}
}

func TestRankMembers_FarMissesDrop(t *testing.T) {
	members := directory("Kofi Boateng", "Yaw Owusu")

	if got := rankMembers(members, "zzzzzzzz"); len(got) != 0 {
		t.Errorf("expected no matches, got %v", namesOf(got))
	}
}

func TestRankMembers_EmptyQueryReturnsAll(t *testing.T) {
	members := directory("A", "B")
	if got := rankMembers(members, "   "); len(got) != 2 {
		t.Errorf("expected whole directory, got %v", namesOf(got))
	}
}
