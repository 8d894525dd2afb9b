package authz

import "testing"

func TestAllow(t *testing.T) {
	cases := []struct {
		role     string
		required []string
		want     bool
	}{
		{RoleAdmin, []string{RoleAdmin}, true},
		{RoleEditor, []string{RoleAdmin}, false},
		{RoleEditor, []string{RoleAdmin, RoleEditor}, true},
		{RoleViewer, []string{RoleAdmin, RoleEditor}, false},
		{RoleViewer, nil, true},
		{"", nil, false},
		{"superuser", []string{RoleAdmin}, false},
	}
	for _, tc := range cases {
		if got := Allow(tc.role, tc.required...); got != tc.want {
			t.Errorf("Allow(%q, %v) = %v, want %v", tc.role, tc.required, got, tc.want)
		}
	}
}

func TestCanEdit(t *testing.T) {
	if !CanEdit(RoleAdmin) || !CanEdit(RoleEditor) {
		t.Fatalf("admin and editor can edit")
	}
	if CanEdit(RoleViewer) || CanEdit("") {
		t.Fatalf("viewer cannot edit")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleEditor, RoleViewer} {
		if !ValidRole(role) {
			t.Errorf("role %q should be valid", role)
		}
	}
	if ValidRole("owner") {
		t.Errorf("unknown role accepted")
	}
}
