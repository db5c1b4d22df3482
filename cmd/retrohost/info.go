package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/retrohost/domain/entities"
)

type coreInfo struct {
	Path       string              `json:"path"`
	System     entities.SystemInfo `json:"system"`
	Subsystems []subsystemInfo     `json:"subsystems,omitempty"`
	NoGame     bool                `json:"supports_no_game"`
}

type subsystemInfo struct {
	Ident string `json:"ident"`
	Desc  string `json:"desc"`
	ROMs  int    `json:"roms"`
}

func newInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Initialize the core and print what it reports about itself",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Core == "" {
				return errors.New("no core configured")
			}
			sess, err := a.openSession()
			if err != nil {
				return err
			}
			defer sess.Close()

			info := coreInfo{
				Path:   a.cfg.Core,
				System: sess.SystemInfo(),
				NoGame: sess.Content().SupportNoGame(),
			}
			for _, sub := range sess.Content().Subsystems() {
				info.Subsystems = append(info.Subsystems, subsystemInfo{Ident: sub.Ident, Desc: sub.Desc, ROMs: len(sub.ROMs)})
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}
