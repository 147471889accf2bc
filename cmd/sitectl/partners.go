package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate as the admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginUsername == "" {
			return fmt.Errorf("--username is required")
		}
		password := loginPassword
		if password == "" {
			password = os.Getenv("SITECTL_PASSWORD")
		}
		if password == "" {
			return fmt.Errorf("--password or SITECTL_PASSWORD is required")
		}
		if err := newClient().login(loginUsername, password); err != nil {
			return err
		}
		fmt.Println("Logged in.")
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Get(serverURL + "/healthz")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
		}
		fmt.Println("ok")
		return nil
	},
}

var partnersCmd = &cobra.Command{
	Use:   "partners",
	Short: "Inspect and maintain partners",
}

var partnersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List partners with collaboration counts and ranks",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Partners []struct {
				ID                 string  `json:"id"`
				Name               string  `json:"name"`
				CollaborationCount int     `json:"collaborationCount"`
				ManualScore        float64 `json:"manualScore"`
				InternalRank       float64 `json:"internalRank"`
			} `json:"partners"`
		}
		if err := newClient().do(http.MethodGet, "/api/partners", nil, &resp); err != nil {
			return err
		}
		if outputFmt == "json" {
			return printJSON(resp)
		}
		rows := make([][]string, 0, len(resp.Partners))
		for _, p := range resp.Partners {
			rows = append(rows, []string{
				p.ID, p.Name,
				fmt.Sprintf("%d", p.CollaborationCount),
				fmt.Sprintf("%.1f", p.ManualScore),
				fmt.Sprintf("%.1f", p.InternalRank),
			})
		}
		printTable([]string{"ID", "NAME", "COLLABS", "SCORE", "RANK"}, rows)
		return nil
	},
}

var recalcPartnerID string

var partnersRecalcCmd = &cobra.Command{
	Use:   "recalc",
	Short: "Recalculate stored collaboration counts from portfolio rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{}
		if recalcPartnerID != "" {
			body["partnerId"] = recalcPartnerID
		}
		if err := newClient().do(http.MethodPost, "/api/partners/bulk-recalculate-collab", body, nil); err != nil {
			return err
		}
		fmt.Println("Recalculated.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Admin username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Admin password (or SITECTL_PASSWORD)")

	partnersRecalcCmd.Flags().StringVar(&recalcPartnerID, "partner", "", "Recalculate a single partner (default: all)")

	partnersCmd.AddCommand(partnersListCmd)
	partnersCmd.AddCommand(partnersRecalcCmd)
}
