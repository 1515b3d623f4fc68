package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"library-management-be/pkg/events"
	pktNats "library-management-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	natsURL      string
	eventSubject string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Observe domain events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print domain events as they are published",
	Long: `Attach an ephemeral consumer to the event stream and print new events
until interrupted.

Example:
  libctl events tail --subject events.FEE_PAID`,
	Args: cobra.NoArgs,
	RunE: runEventsTail,
}

func init() {
	eventsTailCmd.Flags().StringVar(&natsURL, "nats", "", "NATS server URL (defaults to NATS_URL)")
	eventsTailCmd.Flags().StringVar(&eventSubject, "subject", "events.>", "subject filter")

	eventsCmd.AddCommand(eventsTailCmd)
	rootCmd.AddCommand(eventsCmd)
}

func runEventsTail(cmd *cobra.Command, args []string) error {
	url := natsURL
	if url == "" {
		url = loadConfig().App.NatsURL
	}
	if url == "" {
		return fmt.Errorf("no NATS server configured: set NATS_URL or pass --nats")
	}

	sub, err := pktNats.NewSubscriber(url)
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	color.Cyan("Tailing %s (Ctrl+C to stop)", eventSubject)
	return sub.Tail(ctx, eventSubject, func(ctx context.Context, event events.Event) error {
		fmt.Printf("%s %s %v\n",
			event.Timestamp().Format("15:04:05"),
			color.YellowString(event.EventType()),
			event.Payload())
		return nil
	})
}
