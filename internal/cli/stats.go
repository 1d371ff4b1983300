package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"surveillance-dashboard/internal/client"
	"surveillance-dashboard/internal/model"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the dashboard statistics snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.NewDashboardClient(dashboardURL, 10*time.Second)
		snap, err := api.Snapshot(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		return renderSnapshot(cmd.OutOrStdout(), snap)
	},
}

func renderSnapshot(out io.Writer, snap model.Snapshot) error {
	o := snap.Overall
	fmt.Fprintf(out, "Detections (24h): %d  Vehicles: %d  Humans: %d  Animals: %d\n",
		o.TotalDetections, o.VehicleDetections, o.HumanDetections, o.AnimalDetections)
	fmt.Fprintf(out, "Alerts: high %d, medium %d, low %d  Active cameras: %d\n\n",
		o.HighAlerts, o.MediumAlerts, o.LowAlerts, o.ActiveCameras)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CAMERA\tTOTAL\tVEHICLE\tHUMAN\tANIMAL\tHIGH\tMEDIUM\tLOW")
	fmt.Fprintln(w, "------\t-----\t-------\t-----\t------\t----\t------\t---")
	for _, c := range snap.CameraStats {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			c.CameraID, c.TotalDetections, c.VehicleDetections, c.HumanDetections,
			c.AnimalDetections, c.HighAlerts, c.MediumAlerts, c.LowAlerts)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nRecent events: %d\n", len(snap.RecentEvents))
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCAMERA\tTYPE\tLEVEL\tDETAILS")
	for _, e := range snap.RecentEvents {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime), e.CameraID, e.EventType, e.AlertLevel, e.Details)
	}
	return w.Flush()
}
