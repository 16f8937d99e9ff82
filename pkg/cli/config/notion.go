package config

import (
	"strings"

	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/fieldline-hq/fieldline/pkg/service/notion"
	"github.com/fieldline-hq/fieldline/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Notion holds CLI flags for the Notion dynamic option source
type Notion struct {
	token     string
	databases []string
}

// Flags returns CLI flags for Notion configuration
func (n *Notion) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "notion-api-token",
			Usage:       "Notion API token for dynamic option sources",
			Sources:     cli.EnvVars("FIELDLINE_NOTION_API_TOKEN"),
			Destination: &n.token,
		},
		&cli.StringSliceFlag{
			Name:        "notion-database",
			Usage:       "Entity type to Notion database mapping as <entity_type>:<database_id> (repeatable)",
			Sources:     cli.EnvVars("FIELDLINE_NOTION_DATABASE"),
			Destination: &n.databases,
		},
	}
}

// Configure builds the Notion option source. Returns nil when not configured.
func (n *Notion) Configure() (*notion.Source, error) {
	if n.token == "" {
		return nil, nil
	}

	databases := make(map[types.EntityType]string, len(n.databases))
	for _, entry := range n.databases {
		entityType, databaseID, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, goerr.New("invalid notion-database entry, expected <entity_type>:<database_id>", goerr.V("entry", entry))
		}
		et := types.EntityType(entityType)
		if err := et.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid entity type in notion-database entry", goerr.V("entry", entry))
		}
		databases[et] = databaseID
	}
	if len(databases) == 0 {
		return nil, goerr.New("at least one notion-database mapping is required when notion-api-token is set")
	}

	src, err := notion.New(n.token, databases)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize Notion option source")
	}

	logging.Default().Info("Notion option source enabled", "databases", len(databases))
	return src, nil
}
