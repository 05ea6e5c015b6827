package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	pairingrender "github.com/walink/whatsapp-link-cli/internal/adapters/render/pairing"
	"github.com/walink/whatsapp-link-cli/internal/application"
	"github.com/walink/whatsapp-link-cli/internal/domain"
)

func newPairCmd(app *app) *cobra.Command {
	pairCmd := &cobra.Command{
		Use:   "pair",
		Short: "Manage device pairing for a bridge instance",
	}

	pairCmd.AddCommand(
		newPairStartCmd(app),
		newPairRefreshCmd(app),
		newPairCancelCmd(app),
	)

	return pairCmd
}

func newPairStartCmd(app *app) *cobra.Command {
	var instanceID string
	var wait bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Begin pairing and show the code to scan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id := domain.InstanceID(instanceID)

			var changes chan application.PhaseChange
			if wait {
				var unsubscribe func()
				changes, unsubscribe = subscribeToInstance(app, id)
				defer unsubscribe()
			}

			session, startErr := app.controller.Start(cmd.Context(), id)
			if session.InstanceID != "" {
				if err := writeSession(cmd, app, session); err != nil {
					return err
				}
			}
			if startErr != nil {
				return startErr
			}

			if !wait || !session.Phase.Active() {
				return nil
			}

			final, err := waitForSettledPhase(cmd, app, id, changes)
			if err != nil {
				return err
			}
			return writeSession(cmd, app, final)
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance", "", "bridge instance id")
	_ = cmd.MarkFlagRequired("instance")
	cmd.Flags().BoolVar(&wait, "wait", false, "stay attached until the attempt links, expires or fails")

	return cmd
}

func newPairRefreshCmd(app *app) *cobra.Command {
	var instanceID string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Request a fresh pairing code for an in-flight session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.controller.Refresh(cmd.Context(), domain.InstanceID(instanceID))
			if err != nil {
				return err
			}
			return writeSession(cmd, app, session)
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance", "", "bridge instance id")
	_ = cmd.MarkFlagRequired("instance")

	return cmd
}

func newPairCancelCmd(app *app) *cobra.Command {
	var instanceID string

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Abandon the pairing attempt and clear its record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id := domain.InstanceID(instanceID)
			if err := app.controller.Cancel(cmd.Context(), id); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Cleared pairing session for %s.\n", id)
			return err
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance", "", "bridge instance id")
	_ = cmd.MarkFlagRequired("instance")

	return cmd
}

// subscribeToInstance registers a non-blocking listener and returns the
// channel it feeds plus the unsubscribe func. A slow reader drops
// intermediate changes rather than stalling the controller; the final phase
// is re-read from the session table.
func subscribeToInstance(app *app, id domain.InstanceID) (chan application.PhaseChange, func()) {
	changes := make(chan application.PhaseChange, 16)
	unsubscribe := app.controller.Subscribe(func(change application.PhaseChange) {
		if change.InstanceID != id {
			return
		}
		select {
		case changes <- change:
		default:
		}
	})
	return changes, unsubscribe
}

func waitForSettledPhase(cmd *cobra.Command, app *app, id domain.InstanceID, changes <-chan application.PhaseChange) (domain.Session, error) {
	change, err := runPairWaitSpinner(cmd.Context(), cmd.ErrOrStderr(), changes)
	if err != nil {
		return domain.Session{}, err
	}

	session, err := app.controller.Get(id)
	if err != nil {
		// Already evicted; fall back to the last change we saw.
		return domain.Session{
			InstanceID: change.InstanceID,
			Phase:      change.Phase,
			Artifact:   change.Artifact,
			Identity:   change.Identity,
			LastError:  change.Err,
		}, nil
	}
	return session, nil
}

func writeSession(cmd *cobra.Command, app *app, session domain.Session) error {
	rendered, err := app.renderer(session, pairingrender.RenderOptions{Now: app.now()})
	if err != nil {
		return fmt.Errorf("render session: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
