// Package main provides the databackup CLI for snapshotting and
// restoring the user data document outside the running server.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/MegatronPika/question-system-v3/backup"
	"github.com/MegatronPika/question-system-v3/store"
	"github.com/MegatronPika/question-system-v3/utils"
)

var (
	userDataPath string
	volumePath   string
	envVarName   string
	backupDir    string
	backupKeep   int

	restoreForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "databackup",
		Short:         "Backup and restore user data",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&userDataPath, "user-data", utils.GetEnvOrDefault("USER_DATA_FILE", "user_data.json"), "local user data file")
	rootCmd.PersistentFlags().StringVar(&volumePath, "volume", utils.GetEnvOrDefault("DATA_VOLUME_PATH", ""), "data volume directory")
	rootCmd.PersistentFlags().StringVar(&envVarName, "env-var", utils.GetEnvOrDefault("USER_DATA_ENV_VAR", "USER_DATA_JSON"), "env var holding a data snapshot")
	rootCmd.PersistentFlags().StringVar(&backupDir, "backup-dir", utils.GetEnvOrDefault("BACKUP_DIR", "backups"), "backup directory")
	rootCmd.PersistentFlags().IntVar(&backupKeep, "keep", utils.GetEnvInt("BACKUP_KEEP", 10), "backups to keep after rotation")

	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRestoreCmd())
	rootCmd.AddCommand(newInspectCmd())

	return rootCmd
}

func openStore() *store.Store {
	return store.New(userDataPath, volumePath, envVarName)
}

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a timestamped backup of the current user data",
		Args:  cobra.NoArgs,
		RunE:  runBackupCmd,
	}
}

func runBackupCmd(cmd *cobra.Command, _ []string) error {
	st := openStore()
	snapshot, err := st.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to snapshot user data: %w", err)
	}

	mgr := backup.NewManager(backupDir, backupKeep)
	path, err := mgr.Create(snapshot)
	if err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Backup written: %s (%d bytes)\n", path, len(snapshot))
	return nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List existing backups, newest first",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	mgr := backup.NewManager(backupDir, backupKeep)
	names, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No backups found")
		return nil
	}
	for _, name := range names {
		info, err := os.Stat(name)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), name)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %d bytes  %s\n", name, info.Size(), info.ModTime().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore [backup-file]",
		Short: "Restore user data from a backup (latest when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRestoreCmd,
	}
	cmd.Flags().BoolVar(&restoreForce, "force", false, "skip the confirmation prompt")
	return cmd
}

func runRestoreCmd(cmd *cobra.Command, args []string) error {
	var source string
	if len(args) == 1 {
		source = args[0]
	} else {
		mgr := backup.NewManager(backupDir, backupKeep)
		latest, err := mgr.Latest()
		if err != nil {
			return fmt.Errorf("no backup to restore: %w", err)
		}
		source = latest
	}

	raw, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	data := store.NewUserData()
	if err := json.Unmarshal(raw, data); err != nil {
		return fmt.Errorf("backup is not a valid user data document: %w", err)
	}

	if !restoreForce {
		fmt.Fprintf(cmd.OutOrStdout(), "Restore %s (%d users)? [y/N] ", source, len(data.Users))
		var reply string
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &reply); err != nil || (reply != "y" && reply != "Y") {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
	}

	st := openStore()
	if err := st.Save(data); err != nil {
		return fmt.Errorf("failed to restore user data: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %d users from %s\n", len(data.Users), source)
	return nil
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [backup-file]",
		Short: "Summarize a backup, or the live data when omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInspectCmd,
	}
}

func runInspectCmd(cmd *cobra.Command, args []string) error {
	var data *store.UserData
	if len(args) == 1 {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read backup: %w", err)
		}
		data = store.NewUserData()
		if err := json.Unmarshal(raw, data); err != nil {
			return fmt.Errorf("backup is not a valid user data document: %w", err)
		}
	} else {
		data = openStore().Load()
	}

	users := make([]string, 0, len(data.Users))
	for userID := range data.Users {
		users = append(users, userID)
	}
	sort.Strings(users)

	fmt.Fprintf(cmd.OutOrStdout(), "Users: %d\n", len(users))
	for _, userID := range users {
		prog := data.Users[userID]
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: answered=%d wrong=%d important=%d wrong_records=%d exams=%d\n",
			userID,
			len(prog.Answered),
			len(prog.Wrong),
			len(prog.Important),
			len(data.WrongRecords[userID]),
			len(data.ExamRecords[userID]),
		)
	}
	return nil
}
