package main

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"github.com/sliverarmory/imagehook"
	"github.com/sliverarmory/imagehook/imagefile"
	"github.com/sliverarmory/imagehook/usershell"
)

var sectionNames = imagefile.Names{
	MachOSegment: env.Str("IMAGEHOOK_MACHO_SEGMENT", imagefile.MachOSegment),
	MachOSection: env.Str("IMAGEHOOK_MACHO_SECTION", imagefile.MachOSection),
	ELF:          env.Str("IMAGEHOOK_ELF_SECTION", imagefile.ELFSection),
	PE:           env.Str("IMAGEHOOK_PE_SECTION", imagefile.PESection),
}

var rootCmd = &cobra.Command{
	Use:          "imagehook",
	Short:        "Locate reserved metadata sections in binary modules",
	SilenceUsage: true,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <binary>",
	Short: "Report the metadata section recorded in an object file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := imagefile.InspectNames(args[0], sectionNames)
		if err != nil {
			return err
		}
		if !info.Found {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: no metadata section\n", info.Format)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: addr=0x%x size=%d\n", info.Format, info.Addr, info.Size)
		return nil
	},
}

var selfCmd = &cobra.Command{
	Use:   "self",
	Short: "Scan the modules loaded into this process",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			mu       sync.Mutex
			sections []imagehook.Section
		)
		imagehook.SetRegisterFunc(func(sect imagehook.Section) {
			mu.Lock()
			sections = append(sections, sect)
			mu.Unlock()
		})
		imagehook.LoadImages()

		mu.Lock()
		defer mu.Unlock()
		for _, sect := range sections {
			fmt.Fprintf(cmd.OutOrStdout(), "base=0x%x length=%d\n", sect.Base, sect.Length)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d module(s)\n", len(sections))
		return nil
	},
}

var stripCmd = &cobra.Command{
	Use:   "strip <pointer>",
	Short: "Remove the pointer-authentication code from a pointer value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := strings.TrimPrefix(strings.ToLower(args[0]), "0x")
		value, err := strconv.ParseUint(raw, 16, 64)
		if err != nil {
			return fmt.Errorf("parse pointer %q: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "0x%x\n", uint64(imagehook.StripDataPointer(uintptr(value))))
		return nil
	},
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Print the current user's login shell",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		shell, err := usershell.LoginShell()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), shell)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd, selfCmd, stripCmd, shellCmd)
}
