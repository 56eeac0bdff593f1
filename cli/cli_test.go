package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutusiji/lantu-next/api"
	"github.com/tutusiji/lantu-next/models"
	"github.com/tutusiji/lantu-next/testutil"
)

func run(t *testing.T, cfg map[string]string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(&App{Config: cfg, Out: &out})
	root.SetArgs(args)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func sqliteConfig(t *testing.T) map[string]string {
	t.Helper()
	return map[string]string{
		"DB_TYPE":      "sqlite",
		"SQLITE_PATH":  filepath.Join(t.TempDir(), "techmap.db"),
		"DB_LOG_LEVEL": "silent",
	}
}

func newAPI(t *testing.T) (*httptest.Server, testutil.Catalogue) {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	seeded := testutil.SeedCatalogue(t, db)
	require.NoError(t, db.UserRepo().Add(context.Background(), &models.User{Username: "admin", Password: "admin@999"}))

	server, err := api.NewServer(db, map[string]string{"ADMIN_TOKEN_SECRET": "cli-test"})
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts, seeded
}

func TestSeedThenDedupe(t *testing.T) {
	cfg := sqliteConfig(t)

	out, err := run(t, cfg, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 1 users, 5 layers, 22 categories, 129 tech items")

	out, err = run(t, cfg, "dedupe")
	require.NoError(t, err)
	assert.Contains(t, out, "no duplicates found")
}

func TestSeed_BadFile(t *testing.T) {
	_, err := run(t, sqliteConfig(t), "seed", "--file", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening catalogue")
}

func TestColumnReport(t *testing.T) {
	cfg := sqliteConfig(t)
	_, err := run(t, cfg, "seed")
	require.NoError(t, err)

	out, err := run(t, cfg, "column-report")
	require.NoError(t, err)
	assert.Contains(t, out, "Total mismatched columns across all tables: 0")
}

func TestShow(t *testing.T) {
	ts, _ := newAPI(t)

	out, err := run(t, map[string]string{"TECHMAP_API_URL": ts.URL}, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "2/3 active (66.7%)")
	assert.Contains(t, out, "☰ Frontend")
	assert.Contains(t, out, "📦 Frameworks (3)")
	assert.Contains(t, out, "● React [frontend,spa]")
	assert.Contains(t, out, "○ Svelte !high")

	out, err = run(t, nil, "show", "--api", ts.URL, "--missing")
	require.NoError(t, err)
	assert.NotContains(t, out, "React")
	assert.Contains(t, out, "Svelte")
}

func TestMove(t *testing.T) {
	ts, seeded := newAPI(t)
	cfg := map[string]string{
		"TECHMAP_API_URL":        ts.URL,
		"TECHMAP_ADMIN_USER":     "admin",
		"TECHMAP_ADMIN_PASSWORD": "admin@999",
	}

	out, err := run(t, cfg, "move", "--type", "category", "--parent", fmt.Sprint(seeded.Layers[0].ID), "--from", "2", "--to", "0")
	require.NoError(t, err)
	want := fmt.Sprintf("category:%d synced: [%d %d %d]", seeded.Layers[0].ID,
		seeded.Categories[2].ID, seeded.Categories[0].ID, seeded.Categories[1].ID)
	assert.Contains(t, out, want)

	_, err = run(t, map[string]string{"TECHMAP_API_URL": ts.URL}, "move", "--type", "layer", "--user", "admin", "--password", "nope", "--from", "0", "--to", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging in")

	_, err = run(t, cfg, "move", "--type", "shelf")
	require.Error(t, err)
}

func TestRenderTree_Solution(t *testing.T) {
	dash := &models.Dashboard{
		Stats:  models.ComputeStats(2, 1),
		Layers: []models.Layer{{ID: 1, Name: "场景解决方案", Icon: "💡"}},
		Categories: []models.Category{{
			ID: 10, LayerID: 1, Name: "Robotics",
			Icon: models.LayoutIcon("ROS2 stack", []models.ColumnDef{
				{ID: "hw", Name: "Hardware", Icon: "Cpu"},
				{ID: "ctrl", Name: "Control", Icon: "Settings"},
			}),
		}},
		TechItems: []models.TechItem{
			{ID: 1, CategoryID: 10, Name: "RK3588", Status: models.StatusActive, Tags: "hw", IsNew: true},
			{ID: 2, CategoryID: 10, Name: "ROS 2 Humble", Status: models.StatusActive, Tags: "ctrl,hw"},
			{ID: 3, CategoryID: 10, Name: "Zenoh", Status: models.StatusMissing, Tags: "dds"},
		},
	}

	var buf bytes.Buffer
	RenderTree(&buf, dash, false)
	lines := strings.Split(buf.String(), "\n")

	assert.Equal(t, "2/3 active (66.7%)", lines[0])
	assert.Contains(t, buf.String(), "💡 场景解决方案")
	assert.Contains(t, buf.String(), "  ▦ Robotics (3)\n    ROS2 stack\n")
	assert.Contains(t, buf.String(), "    🔲 Hardware\n      ● RK3588 [hw] new\n      ● ROS 2 Humble [ctrl,hw]\n")
	assert.Contains(t, buf.String(), "    ⚙ Control\n      ● ROS 2 Humble [ctrl,hw]\n")
	assert.Contains(t, buf.String(), "    (unassigned)\n      ○ Zenoh [dds]\n")
}
