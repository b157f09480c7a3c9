package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/notify"
)

func (c *cli) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <token>",
		Short: "Store a backend token and load the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			err := c.app.Login(ctx, args[0])
			if !c.app.LoggedIn() {
				return err
			}
			c.notifier.Notify(ctx, notify.Success("Logged in"))
			if p, ok := c.app.Profile.Profile(); ok {
				printProfile(c.out, p)
			}
			return err
		},
	}
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := c.app.Logout(ctx); err != nil {
				c.notifier.Notify(ctx, notify.Error("Could not clear local storage"))
				return err
			}
			c.notifier.Notify(ctx, notify.Success("Logged out"))
			return nil
		},
	}
}

func (c *cli) doctorsCmd() *cobra.Command {
	var available bool
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "List doctors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doctors, err := c.app.Doctors.GetDoctorsData(cmd.Context())
			if err != nil {
				return err
			}
			if available {
				doctors = models.AvailableDoctors(doctors)
			}
			printDoctors(c.out, doctors)
			return nil
		},
	}
	cmd.Flags().BoolVar(&available, "available", false, "only doctors taking appointments")
	return cmd
}

func (c *cli) profileCmd() *cobra.Command {
	show := func(ctx context.Context, _ []string) error {
		p, err := c.app.Profile.LoadProfileData(ctx)
		if err != nil {
			return err
		}
		printProfile(c.out, p)
		return nil
	}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the profile",
		Args:  cobra.NoArgs,
		RunE:  c.authed(show),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		Args:  cobra.NoArgs,
		RunE:  c.authed(show),
	})

	var update models.Profile
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields; unset flags keep their current value",
		Args:  cobra.NoArgs,
		RunE: c.authed(func(ctx context.Context, _ []string) error {
			current, err := c.app.Profile.LoadProfileData(ctx)
			if err != nil {
				return err
			}
			merged := mergeProfile(current, update)
			p, err := c.app.Profile.UpdateProfile(ctx, merged)
			if err != nil {
				return err
			}
			printProfile(c.out, p)
			return nil
		}),
	}
	f := updateCmd.Flags()
	f.StringVar(&update.Name, "name", "", "display name")
	f.StringVar(&update.Phone, "phone", "", "phone number")
	f.StringVar(&update.Gender, "gender", "", "gender")
	f.StringVar(&update.DOB, "dob", "", "date of birth")
	f.StringVar(&update.Address.Line1, "address1", "", "address line 1")
	f.StringVar(&update.Address.Line2, "address2", "", "address line 2")
	f.StringVar(&update.About, "about", "", "about (doctors)")
	f.IntVar(&update.Fees, "fees", 0, "appointment fee (doctors)")
	cmd.AddCommand(updateCmd)
	return cmd
}

// mergeProfile overlays the non-empty fields of patch on p. The backend
// replaces the whole record on update.
func mergeProfile(p, patch models.Profile) models.Profile {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.Name, patch.Name)
	set(&p.Phone, patch.Phone)
	set(&p.Gender, patch.Gender)
	set(&p.DOB, patch.DOB)
	set(&p.Address.Line1, patch.Address.Line1)
	set(&p.Address.Line2, patch.Address.Line2)
	set(&p.About, patch.About)
	if patch.Fees > 0 {
		p.Fees = patch.Fees
	}
	return p
}
