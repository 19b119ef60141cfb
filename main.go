package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/truyenhub/truyenhub/api"
	"github.com/truyenhub/truyenhub/config"
	"github.com/truyenhub/truyenhub/docstore"
	"github.com/truyenhub/truyenhub/gateway"
	"github.com/truyenhub/truyenhub/log"
	"github.com/truyenhub/truyenhub/session"
	"github.com/truyenhub/truyenhub/store"
	"github.com/truyenhub/truyenhub/worker"
)

const greetingBanner = `
████████ ██████  ██    ██ ██    ██ ███████ ███    ██ ██   ██ ██    ██ ██████
   ██    ██   ██ ██    ██  ██  ██  ██      ████   ██ ██   ██ ██    ██ ██   ██
   ██    ██████  ██    ██   ████   █████   ██ ██  ██ ███████ ██    ██ ██████
   ██    ██   ██ ██    ██    ██    ██      ██  ██ ██ ██   ██ ██    ██ ██   ██
   ██    ██   ██  ██████     ██    ███████ ██   ████ ██   ██  ██████  ██████
`

var (
	configFile string

	db  *docstore.SQLite
	app *store.Store

	rootCmd = &cobra.Command{
		Use:   "truyenhub",
		Short: "TruyenHub is a reading and publishing client",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			teardown()
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(greetingBanner)
			cmd.Help()
		},
	}
)

func setup() error {
	var err error
	if configFile != "" {
		_, err = config.ParseFile(configFile)
	} else {
		_, err = config.GetConfig()
	}
	if err != nil {
		return err
	}
	log.Setup(config.Opts)

	db, err = docstore.Open(config.Opts.DSN)
	if err != nil {
		return err
	}

	storage, err := session.NewFileStorage(filepath.Join(config.Opts.Data, "session"))
	if err != nil {
		return err
	}

	gw := gateway.New(db, worker.NewPool(config.Opts.FetchPoolSize), config.Opts.BatchSize)
	app = store.New(gw, api.NewClient(config.Opts.AccountsAPIURL), session.New(storage))

	if app.RestoreSession() {
		log.Debug("Session restored", zap.String("username", app.Account().Username))
	}
	return nil
}

func teardown() {
	if db != nil {
		db.Close()
	}
	log.Logger.Sync()
}

func newRegisterCmd() *cobra.Command {
	var email, username, password, repeat string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Register(cmd.Context(), email, username, password, repeat); err != nil {
				return err
			}
			fmt.Println("Đăng ký thành công!")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&username, "username", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&repeat, "repeat-password", "", "password, again")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Printf("Xin chào, %s!\n", app.Account().Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Logout()
		},
	}
}

func newBooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.FetchBooks(ctx); err != nil {
				return err
			}
			if err := app.FetchAllChapters(ctx); err != nil {
				return err
			}
			counts := app.CountChaptersByBook()
			for _, b := range app.Books().Books {
				fmt.Printf("%-16s %-32s %-20s %3d chương\n", b.BookID, b.Title, b.Author, counts[b.BookID])
			}
			return nil
		},
	}
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search the catalog by title, author, series or genre",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.SearchBooks(cmd.Context(), args[0]); err != nil {
				return err
			}
			for _, b := range app.Books().SearchResults {
				fmt.Printf("%-16s %-32s %s\n", b.BookID, b.Title, b.Author)
			}
			return nil
		},
	}
}

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Show and manage the personal library",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ids := app.Account().LibraryBookIDList
			if len(ids) == 0 {
				fmt.Println("Thư viện trống.")
				return nil
			}
			if err := app.FetchLibraryBooks(ctx, ids); err != nil {
				return err
			}
			for _, b := range app.Account().LibraryBookList {
				fmt.Printf("%-16s %-32s %s\n", b.BookID, b.Title, b.Author)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <bookId>",
		Short: "Add a book to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.AddBookToLibrary(cmd.Context(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <bookId>",
		Short: "Remove a book from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RemoveBookFromLibrary(cmd.Context(), args[0])
		},
	})
	return cmd
}

func newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <bookId> [chapterNum]",
		Short: "Open a book at a chapter and remember the position",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			chapterNum := 1
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return err
				}
				chapterNum = n
			}

			// the position is kept locally even if the account write fails
			if err := app.SetCurrentPosition(ctx, args[0], chapterNum); err != nil {
				log.Warn("Reading position not saved to account", zap.Error(err))
			}
			if err := app.FetchCurrentBook(ctx); err != nil {
				return err
			}
			if err := app.FetchChaptersOfCurrentBook(ctx); err != nil {
				return err
			}

			state := app.Account()
			if state.CurrentBook == nil {
				fmt.Println("Không tìm thấy sách.")
				return nil
			}
			fmt.Printf("%s - %s\n\n", state.CurrentBook.Title, state.CurrentBook.Author)
			for _, c := range state.ChaptersOfCurrentBook {
				if c.ChapterNum == chapterNum {
					fmt.Printf("Chương %d: %s\n\n%s\n", c.ChapterNum, c.ChapterTitle, c.ChapterContent)
					return nil
				}
			}
			fmt.Printf("Không có chương %d.\n", chapterNum)
			return nil
		},
	}
}

func newNotificationsCmd() *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show account notifications grouped by day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear {
				return app.ClearNotifications(cmd.Context())
			}
			app.LoadNotifications()
			for _, group := range app.Notifications().Grouped {
				fmt.Println(group.Title)
				for _, item := range group.Items {
					fmt.Printf("  %s  %s\n", item.Time, item.Text)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "delete every notification")
	return cmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.AddCommand(
		newRegisterCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newBooksCmd(),
		newSearchCmd(),
		newLibraryCmd(),
		newReadCmd(),
		newNotificationsCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}
