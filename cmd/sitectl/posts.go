package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Inspect and manage blog posts",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List blog posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Posts []struct {
				Slug  string `json:"slug"`
				Date  string `json:"date"`
				Title string `json:"title"`
			} `json:"posts"`
		}
		if err := newClient().do(http.MethodGet, "/api/posts", nil, &resp); err != nil {
			return err
		}
		if outputFmt == "json" {
			return printJSON(resp)
		}
		rows := make([][]string, 0, len(resp.Posts))
		for _, p := range resp.Posts {
			rows = append(rows, []string{p.Slug, p.Date, p.Title})
		}
		printTable([]string{"SLUG", "DATE", "TITLE"}, rows)
		return nil
	},
}

var (
	postTitle   string
	postDate    string
	postTagline string
	postPreview string
	postImage   string
)

var postsCreateCmd = &cobra.Command{
	Use:   "create <body.md>",
	Short: "Create a blog post from a Markdown body file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		title := postTitle
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(args[0]), ".md")
		}
		req := map[string]string{
			"title":   title,
			"date":    postDate,
			"tagline": postTagline,
			"preview": postPreview,
			"image":   postImage,
			"body":    string(body),
		}
		var resp struct {
			Slug string `json:"slug"`
		}
		if err := newClient().do(http.MethodPost, "/api/posts", req, &resp); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", resp.Slug)
		return nil
	},
}

var postsDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete a blog post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().do(http.MethodDelete, "/api/posts/"+url.PathEscape(args[0]), nil, nil); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

func init() {
	postsCreateCmd.Flags().StringVar(&postTitle, "title", "", "Post title (default: body filename)")
	postsCreateCmd.Flags().StringVar(&postDate, "date", "", "Publish date, YYYY-MM-DD (default: today)")
	postsCreateCmd.Flags().StringVar(&postTagline, "tagline", "", "Post tagline")
	postsCreateCmd.Flags().StringVar(&postPreview, "preview", "", "Post preview text")
	postsCreateCmd.Flags().StringVar(&postImage, "image", "", "Header image URL")

	postsCmd.AddCommand(postsListCmd)
	postsCmd.AddCommand(postsCreateCmd)
	postsCmd.AddCommand(postsDeleteCmd)
}
