package concord

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPermissionsHas(t *testing.T) {
	t.Parallel()

	perms := PermissionSendMessages | PermissionManageMessages
	if !perms.Has(PermissionSendMessages) {
		t.Fatal("expected SEND_MESSAGES set")
	}
	if perms.Has(PermissionAdministrator) {
		t.Fatal("expected ADMINISTRATOR unset")
	}
	if perms.Has(PermissionSendMessages | PermissionAdministrator) {
		t.Fatal("Has must require every bit of the flag")
	}
}

func TestPermissionsNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		perms Permissions
		want  []string
	}{
		{
			name:  "no bits",
			perms: 0,
			want:  []string{},
		},
		{
			name:  "moderation set",
			perms: PermissionKickMembers | PermissionBanMembers | PermissionManageMessages,
			want:  []string{"KICK_MEMBERS", "BAN_MEMBERS", "MANAGE_MESSAGES"},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(testCase.want, testCase.perms.Names()); diff != "" {
				t.Fatalf("unexpected names (-want +got):\n%s", diff)
			}
		})
	}
}
