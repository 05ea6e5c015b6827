package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walink/whatsapp-link-cli/internal/domain"
)

func newStatusCmd(app *app) *cobra.Command {
	var instanceID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the pairing state of an instance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := loadSession(cmd, app, domain.InstanceID(instanceID))
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(session)
			}

			return writeSession(cmd, app, session)
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance", "", "bridge instance id")
	_ = cmd.MarkFlagRequired("instance")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the session as JSON")

	return cmd
}

// loadSession prefers the live session table and falls back to the persisted
// record, so status keeps working after the process that ran the pairing is
// gone.
func loadSession(cmd *cobra.Command, app *app, id domain.InstanceID) (domain.Session, error) {
	session, err := app.controller.Get(id)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return domain.Session{}, err
	}

	session, err = app.records.GetByID(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Session{}, fmt.Errorf("no pairing session or record for %s: %w", id, domain.ErrSessionNotFound)
		}
		return domain.Session{}, err
	}
	return session, nil
}
