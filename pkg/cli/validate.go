package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/fieldline-hq/fieldline/pkg/cli/config"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var formsCfg config.Forms

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate form definition files",
		Flags:   formsCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			ok := color.New(color.FgGreen, color.Bold).SprintFunc()
			fail := color.New(color.FgRed, color.Bold).SprintFunc()

			failures := 0
			for _, path := range formsCfg.Paths() {
				form, err := config.LoadFormFile(path)
				if err != nil {
					fmt.Printf("%s %s\n    %v\n", fail("FAIL"), path, err)
					failures++
					continue
				}

				// Validate covers reference cycles too; report them
				// separately so authors see the offending fields first
				if cycle := model.DetectReferenceCycle(form.Fields); len(cycle) > 0 {
					fmt.Printf("%s %s\n    reference cycle: %v\n", fail("FAIL"), path, cycle)
					failures++
					continue
				}

				fmt.Printf("%s %s (%q, %d fields, %d pages)\n",
					ok("OK"), path, form.Title, len(form.Fields), model.GetPageCount(form.Fields))
			}

			if failures > 0 {
				return fmt.Errorf("%d of %d form definition(s) failed validation", failures, len(formsCfg.Paths()))
			}
			return nil
		},
	}
}
