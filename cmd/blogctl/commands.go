package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/oksasatya/go-blog-publisher/internal/client"
	"github.com/oksasatya/go-blog-publisher/internal/editor"
	"github.com/oksasatya/go-blog-publisher/internal/listing"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Write, save and publish blog posts from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "API base URL (default $BLOG_API_URL or "+defaultAPIURL+")")
	root.PersistentFlags().StringVar(&a.sessionPath, "session", "", "session file (default $BLOGCTL_SESSION or the user config dir)")

	root.AddCommand(
		registerCmd(a),
		loginCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		listCmd(a),
		showCmd(a),
		editCmd(a),
		deleteCmd(a),
		searchCmd(a),
		uploadCmd(a),
	)
	return root
}

func registerCmd(a *app) *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if name == "" {
				if name, err = a.readLine("Name"); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = a.readLine("Email"); err != nil {
					return err
				}
			}
			pw, err := a.readSecret("Password")
			if err != nil {
				return err
			}
			u, err := a.api.Register(cmd.Context(), name, email, pw)
			if err != nil {
				return describe(err)
			}
			a.printf("Registered and logged in as %s <%s>\n", u.Name, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func loginCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = a.readLine("Email"); err != nil {
					return err
				}
			}
			pw, err := a.readSecret("Password")
			if err != nil {
				return err
			}
			u, err := a.api.Login(cmd.Context(), email, pw)
			if err != nil {
				return describe(err)
			}
			a.printf("Logged in as %s <%s>\n", u.Name, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.Logout(); err != nil {
				return err
			}
			a.println("Logged out")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.api.Me(cmd.Context())
			if err != nil {
				return describe(err)
			}
			a.printf("%s <%s> (%s)\n", u.Name, u.Email, u.ID)
			return nil
		},
	}
}

func listCmd(a *app) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your blogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := listing.New(a.api, a)
			if err := v.Load(cmd.Context()); err != nil {
				return describe(err)
			}
			a.printBlogs(v.Filter(listing.ParseFilter(status)))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "all, published or drafts")
	return cmd
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one blog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.api.GetBlog(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			a.printBlog(b)
			return nil
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a blog after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirm listing.Confirmer = a
			if yes {
				confirm = listing.ConfirmFunc(func(string) bool { return true })
			}
			v := listing.New(a.api, confirm)
			err := v.Delete(cmd.Context(), args[0])
			if errors.Is(err, listing.ErrCancelled) {
				a.println("Cancelled")
				return nil
			}
			if err != nil {
				return describe(err)
			}
			a.println("Blog deleted successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func searchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over your blogs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blogs, err := a.api.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return describe(err)
			}
			a.printBlogs(blogs)
			return nil
		},
	}
}

func uploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload an image and print its URL for use in a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := a.uploadFile(cmd, args[0])
			if err != nil {
				return describe(err)
			}
			a.println(url)
			return nil
		},
	}
}

func editCmd(a *app) *cobra.Command {
	var debounce, interval time.Duration
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Open an editor session; drafts auto-save while you type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var b *client.Blog
			if len(args) == 1 {
				var err error
				if b, err = a.api.GetBlog(cmd.Context(), args[0]); err != nil {
					return describe(err)
				}
			}
			s := editor.Open(a.api, b, editor.Options{
				Debounce: debounce,
				Interval: interval,
				Notify: func(n editor.Notice) {
					a.printf("[%s] %s\n", n.Level, n.Message)
				},
			})
			defer s.Close()
			return a.runEditor(cmd, s)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", editor.DefaultDebounce, "quiet period before an autosave")
	cmd.Flags().DurationVar(&interval, "interval", editor.DefaultInterval, "periodic autosave interval")
	return cmd
}

// describe turns client errors into something a person can act on.
func describe(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		return errors.New("not logged in or session expired; run `blogctl login`")
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		parts := make([]string, 0, len(apiErr.Fields))
		for f, msg := range apiErr.Fields {
			parts = append(parts, f+" "+msg)
		}
		return fmt.Errorf("%s (%s)", apiErr.Message, strings.Join(parts, ", "))
	}
	return err
}

func (a *app) printBlogs(blogs []client.Blog) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	if len(blogs) == 0 {
		fmt.Fprintln(a.out, "No blogs found")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tUPDATED\tTITLE\tTAGS")
	for _, b := range blogs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", b.ID, b.Status, b.UpdatedAt.Local().Format(time.DateTime), b.Title, strings.Join(b.Tags, ", "))
	}
	_ = tw.Flush()
}

func (a *app) printBlog(b *client.Blog) {
	a.printf("%s\n%s | %s | updated %s\ntags: %s\n\n%s\n",
		b.Title, b.ID, b.Status, b.UpdatedAt.Local().Format(time.DateTime), strings.Join(b.Tags, ", "), b.Content)
}
