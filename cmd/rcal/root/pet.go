package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/ui"
)

func newPetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pet",
		Short: "Inspect and drive the pet collection",
	}
	cmd.AddCommand(newPetListCmd(), newPetBuyCmd(), newPetRevealCmd())
	return cmd
}

func newPetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pets and their lifecycle states",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconPet, "Pets"))
			for _, pet := range s.svc.Pets.Pets() {
				state, serr := s.svc.Pets.State(pet.ID)
				if serr != nil {
					return serr
				}
				fmt.Fprintf(out, "- %s (%s): %s, cost %d %s\n",
					pet.Name, pet.ID, ui.PetStateText(string(state)), pet.Cost, ui.IconCoin)
			}
			return nil
		},
	}
}

func petIDArg(args []string) error {
	if len(args) != 1 {
		return errors.New("pet id is required")
	}
	return nil
}

func newPetBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <id>",
		Short: "Purchase a pet and start it hatching",
		Args: func(cmd *cobra.Command, args []string) error {
			return petIDArg(args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := s.svc.Pets.Purchase(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconEgg+" hatching started: "+args[0]))
			return nil
		},
	}
}

func newPetRevealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reveal <id>",
		Short: "Reveal a pet that finished hatching",
		Args: func(cmd *cobra.Command, args []string) error {
			return petIDArg(args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			defer s.announceLevelUps(cmd)()

			if err := s.svc.Pets.Reveal(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Gold.Render(ui.IconPet+" revealed: "+args[0]))
			return nil
		},
	}
}
