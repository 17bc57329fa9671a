package system

import (
	"errors"

	"github.com/julianstephens/aura/internal/cli"
	"github.com/julianstephens/aura/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	result := validation.New().ValidateHabits(ctx.Service.List())
	ctx.Println(result.FormatReport())
	if result.HasConflicts() {
		return errors.New("validation failed")
	}
	return nil
}
