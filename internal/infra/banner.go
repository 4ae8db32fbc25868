package infra

import (
	"fmt"
)

// ANSI Color Codes
const (
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// PrintBanner displays the startup banner with the session identity.
func PrintBanner(cfg *Config) {
	color := ColorCyan

	fmt.Println()
	fmt.Printf("%s###########################################################%s\n", color, ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)
	fmt.Printf("%s#               HFT Experiment Client                     #%s\n", color, ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)
	fmt.Printf("%s#   SUBSESSION: %-33s #%s\n", color, cfg.Session.SubsessionID, ColorReset)
	fmt.Printf("%s#   MARKET:     %-33d #%s\n", color, cfg.Session.MarketID, ColorReset)
	fmt.Printf("%s#   PLAYER:     %-33d #%s\n", color, cfg.Session.PlayerID, ColorReset)
	fmt.Printf("%s#   VERSION:    %-33s #%s\n", color, cfg.App.Version, ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)
	fmt.Printf("%s###########################################################%s\n", color, ColorReset)
	fmt.Println()
}
