package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		want Labels
	}{
		{
			name: "mayor in gasometer rig",
			dir:  "proj-gt-mayor-gasometer",
			want: Labels{Role: "mayor", Rig: "gasometer"},
		},
		{
			name: "polecat worker",
			dir:  "-Users-me-gt-gastown-polecats-alice-session",
			want: Labels{Role: "polecat", Rig: "gastown", Worker: "alice"},
		},
		{
			name: "nothing matches",
			dir:  "-Users-me-src-website",
			want: Labels{Role: RoleUnknown},
		},
		{
			name: "uppercase directory",
			dir:  "-Users-Me-GT-Beads-WITNESS",
			want: Labels{Role: "witness", Rig: "beads"},
		},
	}

	e := NewExtractor(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.dir))
		})
	}
}

func TestRole_Priority(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"gt-mayor", "mayor"},
		{"gt-polecats-mayor", "mayor"},
		{"gt-polecats-toast", "polecat"},
		{"gt-refinery-witness", "witness"},
		{"gt-refinery", "refinery"},
		{"gt-deacon-crew", "deacon"},
		{"gt-crew-joe", "crew"},
		{"", RoleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			assert.Equal(t, tt.want, Role(tt.dir))
		})
	}
}

func TestRig(t *testing.T) {
	e := NewExtractor(nil)
	assert.Equal(t, "gasometer", e.Rig("gastown-gasometer"), "earlier rig in the list wins")
	assert.Equal(t, "doccompare", e.Rig("x-DocCompare-y"))
	assert.Equal(t, "", e.Rig("x-unknown-y"))

	custom := NewExtractor([]string{" HappyHour ", "", "gastown"})
	assert.Equal(t, "happyhour", custom.Rig("gt-happyhour-crew"))
	assert.Equal(t, "", custom.Rig("gt-gasometer-crew"), "custom list replaces defaults")
}

func TestWorker(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"segment after marker", "x-polecats-alice-session", "alice"},
		{"marker is last segment", "x-polecats", ""},
		{"marker is case-sensitive", "x-Polecats-alice", ""},
		{"singular is not the marker", "x-polecat-alice", ""},
		{"empty segment after marker", "x-polecats--alice", ""},
		{"first marker wins", "polecats-a-polecats-b", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Worker(tt.dir))
		})
	}
}

func TestRigFromSessionID(t *testing.T) {
	assert.Equal(t, "careers", RigFromSessionID("ca-toast"))
	assert.Equal(t, "officemonitor", RigFromSessionID("om-crew-joe"))
	assert.Equal(t, "", RigFromSessionID("hq-mayor"))
	assert.Equal(t, "", RigFromSessionID(""))
}
