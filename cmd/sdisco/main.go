//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Command sdisco browses the local network for mDNS services and prints
// what it finds.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"sort"
	"time"

	"github.com/Sameerbk201/service-discovery/mdns"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	log := logrus.New()

	var (
		serviceType string
		timeout     time.Duration
		ifaceName   string
		verbose     bool
	)

	root := &cobra.Command{
		Use:           "sdisco",
		Short:         "mDNS service discovery",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	browse := &cobra.Command{
		Use:   "browse",
		Short: "Send one discovery query and print the services that reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}

			var iface *net.Interface
			if ifaceName != "" {
				var err error
				iface, err = net.InterfaceByName(ifaceName)
				if err != nil {
					return fmt.Errorf("unknown interface %q: %w", ifaceName, err)
				}
			}

			conn, err := mdns.Dial(iface)
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			browser := mdns.NewBrowser(conn, log)
			services, err := browser.Browse(ctx, serviceType)
			if err != nil {
				return err
			}

			if len(services) == 0 {
				fmt.Println("no services found")
				return nil
			}
			for _, svc := range services {
				printService(svc)
			}
			return nil
		},
	}

	browse.Flags().StringVar(&serviceType, "type", "_smart_ip._tcp.local", "service type to browse for")
	browse.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "how long to collect replies")
	browse.Flags().StringVar(&ifaceName, "iface", "", "network interface to use (default: kernel's choice)")
	browse.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(browse)

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func printService(svc *mdns.Service) {
	fmt.Printf("%s\n", svc.Instance)
	if svc.Host != "" {
		fmt.Printf("  %s:%d\n", svc.Host, svc.Port)
	}
	for _, addr := range svc.Addrs {
		fmt.Printf("  %s\n", addr)
	}

	keys := make([]string, 0, len(svc.Text))
	for key := range svc.Text {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := svc.Text[key]
		if value.Flag {
			fmt.Printf("  %s\n", key)
			continue
		}
		fmt.Printf("  %s=%s\n", key, value.Value)
	}
}
