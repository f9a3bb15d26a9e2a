package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/4oBuko/spy-cat-console/internal/catlist"
	"github.com/4oBuko/spy-cat-console/internal/form"
	"github.com/4oBuko/spy-cat-console/internal/models"
	"github.com/4oBuko/spy-cat-console/internal/myerrors"
	"github.com/4oBuko/spy-cat-console/internal/policy"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const (
	FlagName   = "name"
	FlagYears  = "years"
	FlagBreed  = "breed"
	FlagSalary = "salary"
	FlagYes    = "yes"
)

var errRejected = errors.New("cat was not saved")

// GetCatsCmd returns the cat management command group.
func GetCatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cats",
		Short: "Manage spy cats",
	}
	cmd.AddCommand(
		getCatsListCmd(),
		getCatsBreedsCmd(),
		getCatsCreateCmd(),
		getCatsEditCmd(),
		getCatsDeleteCmd(),
	)
	return cmd
}

func getCatsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all cats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			list := catlist.New(a.logger)
			if err := list.Refresh(cmd.Context(), a.api); err != nil {
				return fmt.Errorf("%s: %w", list.Err(), err)
			}
			if list.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "No cats. Get started by adding a new cat.")
				return nil
			}
			printCats(cmd.OutOrStdout(), list.Cats()...)
			return nil
		},
	}
}

func getCatsBreedsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "breeds",
		Short: "List the breeds the agency accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			breeds, err := a.api.ListValidBreeds(cmd.Context())
			if err != nil {
				return err
			}
			for _, breed := range breeds {
				fmt.Fprintln(cmd.OutOrStdout(), breed)
			}
			return nil
		},
	}
}

func getCatsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a new cat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			f := form.New(nil, a.logger)
			f.LoadBreeds(cmd.Context(), a.api)
			for flag, field := range map[string]policy.Field{
				FlagName:   policy.FieldName,
				FlagYears:  policy.FieldExperienceYears,
				FlagBreed:  policy.FieldBreed,
				FlagSalary: policy.FieldSalary,
			} {
				value, err := cmd.Flags().GetString(flag)
				if err != nil {
					return fmt.Errorf("%s flag: %w", flag, err)
				}
				f.SetValue(field, value)
			}

			return submit(cmd, a, f)
		},
	}
	cmd.Flags().String(FlagName, "", "cat name")
	cmd.Flags().String(FlagYears, "", "years of experience")
	cmd.Flags().String(FlagBreed, "", "breed, see the breeds command")
	cmd.Flags().String(FlagSalary, "", "salary")
	return cmd
}

func getCatsEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the salary of a cat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			salary, err := cmd.Flags().GetString(FlagSalary)
			if err != nil {
				return fmt.Errorf("%s flag: %w", FlagSalary, err)
			}
			a, err := newApp(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			cat, err := a.api.GetCat(cmd.Context(), id)
			if err != nil {
				return err
			}
			f := form.New(&cat, a.logger)
			f.SetValue(policy.FieldSalary, salary)
			return submit(cmd, a, f)
		},
	}
	cmd.Flags().String(FlagSalary, "", "new salary")
	return cmd
}

// submit sends the form and prints either the saved cat or the errors
// attributed to each input.
func submit(cmd *cobra.Command, a *app, f *form.Controller) error {
	cat, err := f.Submit(cmd.Context(), a.api)
	if err == nil {
		printCats(cmd.OutOrStdout(), cat)
		return nil
	}

	errs := f.Errors()
	for _, field := range append(slices.Clone(policy.Fields), policy.FieldGeneral) {
		if msg, ok := errs[field]; ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field.Label(), msg)
		}
	}
	return errRejected
}

func getCatsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a cat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			yes, err := cmd.Flags().GetBool(FlagYes)
			if err != nil {
				return fmt.Errorf("%s flag: %w", FlagYes, err)
			}
			a, err := newApp(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			confirm := func(prompt string) bool {
				if yes {
					return true
				}
				var ok bool
				if err := huh.NewConfirm().Title(prompt).Affirmative("Yes").Negative("No").Value(&ok).Run(); err != nil {
					a.logger.Debug("confirmation aborted", "error", err)
					return false
				}
				return ok
			}

			list := catlist.New(a.logger)
			deleted, alert := list.Delete(cmd.Context(), a.api, id, confirm)
			switch {
			case alert != "":
				return errors.New(alert)
			case !deleted:
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			case list.Status() == catlist.StatusError:
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted cat %d\n", id)
				fmt.Fprintln(cmd.ErrOrStderr(), list.Err())
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted cat %d, %d remaining\n", id, list.Len())
			}
			return nil
		},
	}
	cmd.Flags().BoolP(FlagYes, "y", false, "skip the confirmation prompt")
	return cmd
}

func printCats(w io.Writer, cats ...models.Cat) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "BREED", "EXPERIENCE", "SALARY")
	for _, cat := range cats {
		t.Row(
			strconv.FormatInt(cat.Id, 10),
			cat.Name,
			cat.Breed,
			fmt.Sprintf("%d years", cat.YearsOfExperience),
			strconv.FormatFloat(cat.Salary, 'f', -1, 64),
		)
	}
	fmt.Fprintln(w, t.String())
}

func parseId(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, &myerrors.RequestError{Message: fmt.Sprintf("invalid id %q", raw)}
	}
	return id, nil
}
