package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/4oBuko/spy-cat-console/internal/models"
	"github.com/4oBuko/spy-cat-console/internal/myerrors"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

const (
	FlagCat      = "cat"
	FlagTarget   = "target"
	FlagNotes    = "notes"
	FlagComplete = "complete"
)

// GetMissionsCmd returns the mission command group.
func GetMissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missions",
		Short: "Manage missions and their targets",
	}
	cmd.AddCommand(
		getMissionsListCmd(),
		getMissionsCreateCmd(),
		getTargetUpdateCmd(),
	)
	return cmd
}

func getMissionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all missions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			missions, err := a.api.ListMissions(cmd.Context())
			if err != nil {
				return err
			}
			if len(missions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No missions")
				return nil
			}
			printMissions(cmd.OutOrStdout(), missions...)
			return nil
		},
	}
}

func getMissionsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Assign a new mission to a cat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catId, err := cmd.Flags().GetInt64(FlagCat)
			if err != nil {
				return fmt.Errorf("%s flag: %w", FlagCat, err)
			}
			rawTargets, err := cmd.Flags().GetStringArray(FlagTarget)
			if err != nil {
				return fmt.Errorf("%s flag: %w", FlagTarget, err)
			}

			mission := models.Mission{CatId: catId}
			for _, raw := range rawTargets {
				target, err := parseTarget(raw)
				if err != nil {
					return err
				}
				mission.Targets = append(mission.Targets, target)
			}
			if err := validateMission(mission); err != nil {
				return err
			}

			a, err := newApp(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			saved, err := a.api.CreateMission(cmd.Context(), mission)
			if err != nil {
				return err
			}
			printMissions(cmd.OutOrStdout(), saved)
			return nil
		},
	}
	cmd.Flags().Int64(FlagCat, 0, "id of the cat running the mission")
	cmd.Flags().StringArray(FlagTarget, nil, "target as name:country[:notes], repeat for up to 3 targets")
	return cmd
}

func getTargetUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target-update MISSION TARGET",
		Short: "Update notes of a target or mark it complete",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			missionId, err := parseId(args[0])
			if err != nil {
				return err
			}
			targetId, err := parseId(args[1])
			if err != nil {
				return err
			}

			var update models.TargetUpdate
			if cmd.Flags().Changed(FlagNotes) {
				notes, err := cmd.Flags().GetString(FlagNotes)
				if err != nil {
					return fmt.Errorf("%s flag: %w", FlagNotes, err)
				}
				update.Notes = &notes
			}
			if cmd.Flags().Changed(FlagComplete) {
				complete, err := cmd.Flags().GetBool(FlagComplete)
				if err != nil {
					return fmt.Errorf("%s flag: %w", FlagComplete, err)
				}
				update.Completed = &complete
			}
			if update.Notes == nil && update.Completed == nil {
				return &myerrors.RequestError{Message: fmt.Sprintf("nothing to update, pass --%s or --%s", FlagNotes, FlagComplete)}
			}

			a, err := newApp(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			target, err := a.api.UpdateTarget(cmd.Context(), missionId, targetId, update)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Target %d: %s (%s) completed=%t notes=%q\n",
				target.Id, target.Name, target.Country, target.Completed, target.Notes)
			return nil
		},
	}
	cmd.Flags().String(FlagNotes, "", "new notes")
	cmd.Flags().Bool(FlagComplete, false, "mark the target complete")
	return cmd
}

// parseTarget reads "name:country[:notes]". Notes may contain colons.
func parseTarget(raw string) (models.Target, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 2 {
		return models.Target{}, &myerrors.RequestError{Message: fmt.Sprintf("invalid target %q, want name:country[:notes]", raw)}
	}
	target := models.Target{
		Name:    strings.TrimSpace(parts[0]),
		Country: strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		target.Notes = parts[2]
	}
	return target, nil
}

// validateMission checks the mission against the binding rules the agency
// enforces so obviously bad input never leaves the console.
func validateMission(mission models.Mission) error {
	v := validator.New()
	v.SetTagName("binding")
	if err := v.Struct(mission); err != nil {
		return fmt.Errorf("invalid mission: %w", err)
	}
	return nil
}

func printMissions(w io.Writer, missions ...models.Mission) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "CAT", "STATUS", "TARGET", "NAME", "COUNTRY", "NOTES")
	for _, mission := range missions {
		status := "active"
		if mission.Completed {
			status = "completed"
		}
		for _, target := range mission.Targets {
			mark := "open"
			if target.Completed {
				mark = "done"
			}
			t.Row(
				strconv.FormatInt(mission.Id, 10),
				strconv.FormatInt(mission.CatId, 10),
				status,
				fmt.Sprintf("%d (%s)", target.Id, mark),
				target.Name,
				target.Country,
				target.Notes,
			)
		}
	}
	fmt.Fprintln(w, t.String())
}
