package cli

import (
	"testing"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
)

func TestIndexConfig(t *testing.T) {
	cfg := getIndexConfig()
	gt.NoError(t, cfg.Validate())

	gt.Array(t, cfg.Collections).Length(1)
	col := cfg.Collections[0]
	gt.Value(t, col.Name).Equal("public_links")

	gt.Array(t, col.Indexes).Length(1)
	fields := col.Indexes[0].Fields
	gt.Array(t, fields).Length(2)
	gt.Value(t, fields[0].Path).Equal("FormID")
	gt.Value(t, fields[0].Order).Equal(fireconf.OrderAscending)
	gt.Value(t, fields[1].Path).Equal("CreatedAt")
	gt.Value(t, fields[1].Order).Equal(fireconf.OrderDescending)
}

func TestMigrateCommandFlags(t *testing.T) {
	cmd := cmdMigrate()
	gt.Value(t, cmd.Name).Equal("migrate")

	names := map[string]bool{}
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	gt.Bool(t, names["firestore-project-id"]).True()
	gt.Bool(t, names["firestore-database-id"]).True()
	gt.Bool(t, names["dry-run"]).True()
}
