package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-hfsplus/internal/types"
	"github.com/deploymenttheory/go-hfsplus/pkg/hfsinspect"
)

var lsPath string

var lsCmd = &cobra.Command{
	Use:   "ls [image-path]",
	Short: "List a catalog folder's children",
	Long: `List the immediate children of a catalog folder, resolved from a
slash-separated path rooted at the volume root.

Examples:
  # List the volume root
  hfsinspect ls disk.img

  # List a subfolder
  hfsinspect ls disk.img --path /Users/alice/Documents`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runLs(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().StringVarP(&lsPath, "path", "p", "/", "catalog path to list")
}

func runLs(imagePath string) error {
	insp, err := hfsinspect.Open(imagePath, GetBlockSize(), GetConfig())
	if err != nil {
		return err
	}
	defer insp.Close()

	folderID := uint32(types.CNIDRootFolder)
	if lsPath != "/" && lsPath != "" {
		rec, err := insp.Lookup(lsPath)
		if err != nil {
			return err
		}
		if rec.Kind != types.RecordTypeFolder {
			return fmt.Errorf("%s is not a folder", lsPath)
		}
		folderID = rec.Folder.FolderID
	}

	entries, err := insp.List(folderID)
	if err != nil {
		return err
	}

	for _, e := range entries {
		printDirEntry(e)
	}
	return nil
}

func printDirEntry(e hfsinspect.DirEntry) {
	switch e.Record.Kind {
	case types.RecordTypeFolder:
		fmt.Printf("d  %8d  folder-id=%-10d %s\n", e.Record.Folder.Valence, e.Record.Folder.FolderID, e.Name)
	case types.RecordTypeFile:
		fmt.Printf("-  %8d  file-id=%-10d   %s\n", e.Record.File.DataFork.LogicalSize, e.Record.File.FileID, e.Name)
	}
}
