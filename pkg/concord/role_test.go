package concord

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func fiveRolePayload() *RawGuild {
	raw := testGuildPayload()
	raw.Roles = []RawRole{
		{ID: "r1", Name: "commander", Position: 0},
		{ID: "r2", Name: "raider", Position: 1},
		{ID: "r3", Name: "scout", Position: 2},
		{ID: "r4", Name: "quartermaster", Position: 3},
		{ID: "r5", Name: "recruit", Position: 4},
	}

	return raw
}

func TestRoleSetPositionReplacesCollectionWholesale(t *testing.T) {
	t.Parallel()

	reordered := []RawRole{
		{ID: "r1", Name: "commander", Position: 0},
		{ID: "r3", Name: "scout", Position: 1},
		{ID: "r4", Name: "quartermaster", Position: 2},
		{ID: "r2", Name: "raider", Position: 3},
		{ID: "r5", Name: "recruit", Position: 4},
	}

	transport := newFakeTransport()
	transport.respond(http.MethodPatch, "/guilds/g1/roles", reordered)
	client := newTestClient(t, transport)

	guild, err := client.State().ApplyGuild(fiveRolePayload())
	if err != nil {
		t.Fatalf("apply guild: %v", err)
	}

	stale, ok := guild.Role("r2")
	if !ok {
		t.Fatal("expected role r2")
	}

	roles, err := stale.SetPosition(context.Background(), 3)
	if err != nil {
		t.Fatalf("set position: %v", err)
	}

	if roles.Len() != 5 {
		t.Fatalf("returned collection has %d roles, want 5", roles.Len())
	}
	ids := roles.Keys()
	distinct := append([]string(nil), ids...)
	sort.Strings(distinct)
	for i := 1; i < len(distinct); i++ {
		if distinct[i] == distinct[i-1] {
			t.Fatalf("duplicate role ID %s in returned collection", distinct[i])
		}
	}

	moved, ok := roles.Get("r2")
	if !ok {
		t.Fatal("expected r2 in returned collection")
	}
	if moved.Position != 3 {
		t.Fatalf("moved role position = %d, want 3", moved.Position)
	}

	// The guild's role list is replaced from the batch response.
	if diff := cmp.Diff([]string{"r1", "r3", "r4", "r2", "r5"}, guild.RoleIDs()); diff != "" {
		t.Fatalf("guild role order not replaced (-want +got):\n%s", diff)
	}

	// The caller's pre-mutation instance stays a valid snapshot.
	if stale.Position != 1 {
		t.Fatalf("stale role snapshot mutated: position = %d", stale.Position)
	}

	body := transport.lastBody(t)
	if body["id"] != "r2" || body["position"] != float64(3) {
		t.Fatalf("unexpected request body %v", body)
	}
}

func TestRoleSetPositionUnknownGuild(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport()
	transport.respond(http.MethodPatch, "/guilds/g9/roles", []RawRole{{ID: "r1"}})
	client := newTestClient(t, transport)

	orphan := newRole(client, "g9", RawRole{ID: "r1", Name: "ghost"})
	if _, err := orphan.SetPosition(context.Background(), 1); !errors.Is(err, ErrUnknownGuild) {
		t.Fatalf("expected ErrUnknownGuild, got %v", err)
	}
}

func TestRoleDeleteEvictsFromGuild(t *testing.T) {
	t.Parallel()

	var removals []Removal
	transport := newFakeTransport()
	client := newTestClient(t, transport, WithRemovalHook(func(removal Removal) {
		removals = append(removals, removal)
	}))
	guild := applyTestGuild(t, client)

	role, ok := guild.Role("r1")
	if !ok {
		t.Fatal("expected role r1")
	}
	if err := role.Delete(context.Background(), "restructuring"); err != nil {
		t.Fatalf("delete role: %v", err)
	}

	if _, ok := guild.RawRole("r1"); ok {
		t.Fatal("expected role evicted from guild collection")
	}
	if len(removals) != 1 || removals[0].Kind != EntityKindRole || removals[0].ID != "r1" {
		t.Fatalf("unexpected removal notifications %+v", removals)
	}

	call := transport.lastCall(t)
	if call.method != http.MethodDelete || call.path != "/guilds/g1/roles/r1" {
		t.Fatalf("unexpected request %s %s", call.method, call.path)
	}
	body := transport.lastBody(t)
	if body["reason"] != "restructuring" {
		t.Fatalf("expected delete reason forwarded, got %v", body)
	}
}

func TestRoleDeletePermissionDeniedKeepsCache(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport()
	transport.fail(http.MethodDelete, "/guilds/g1/roles/r1", &fakeStatusError{status: http.StatusForbidden})
	client := newTestClient(t, transport)
	guild := applyTestGuild(t, client)

	role, _ := guild.Role("r1")
	if err := role.Delete(context.Background(), ""); !errors.Is(err, ErrMissingPermissions) {
		t.Fatalf("expected ErrMissingPermissions, got %v", err)
	}
	if _, ok := guild.RawRole("r1"); !ok {
		t.Fatal("expected failed delete to leave the cached role untouched")
	}
}

func TestRoleMentionAndPermissionNames(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newFakeTransport())
	guild := applyTestGuild(t, client)

	role, _ := guild.Role("r1")
	if got := role.String(); got != "<@&r1>" {
		t.Fatalf("mention = %q, want <@&r1>", got)
	}
	if diff := cmp.Diff([]string{"KICK_MEMBERS", "BAN_MEMBERS"}, role.PermissionNames()); diff != "" {
		t.Fatalf("unexpected permission names (-want +got):\n%s", diff)
	}
}
