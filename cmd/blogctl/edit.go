package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oksasatya/go-blog-publisher/internal/editor"
)

const editorHelp = `Commands:
  :title <text>     set the title
  :tags <a, b, c>   set the tags
  :content          replace the content (multi-line)
  :append <text>    add a line to the content
  :image <path>     upload an image and append it to the content
  :show             print the current state
  :save             save the draft now
  :publish          publish and leave the editor
  :quit             leave the editor (pending autosaves are dropped)`

// runEditor drives an editor session from line commands on the input
// stream until :publish succeeds, :quit or EOF.
func (a *app) runEditor(cmd *cobra.Command, s *editor.Session) error {
	a.println(editorHelp)
	for {
		line, err := a.readLine("edit")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		verb, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch verb {
		case "":
		case ":title":
			s.SetTitle(rest)
		case ":tags":
			s.SetTags(rest)
		case ":content":
			body, err := a.readMultiline("Content")
			if err != nil {
				return err
			}
			s.SetContent(body)
		case ":append":
			s.SetContent(appendLine(s.State().Content, rest))
		case ":image":
			url, err := a.uploadFile(cmd, rest)
			if err != nil {
				a.printf("[error] %v\n", describe(err))
				continue
			}
			s.SetContent(appendLine(s.State().Content, `<img src="`+url+`">`))
		case ":show":
			a.printState(s.State())
		case ":save":
			if err := s.SaveDraft(cmd.Context()); err != nil {
				a.printf("[error] %v\n", describe(err))
			}
		case ":publish":
			b, err := s.Publish(cmd.Context())
			if err != nil {
				if !errors.Is(err, editor.ErrTitleAndContentRequired) && !errors.Is(err, editor.ErrInvalidTags) {
					a.printf("[error] %v\n", describe(err))
				}
				continue
			}
			a.printf("Published %s\n", b.ID)
			return nil
		case ":quit", ":q":
			return nil
		case ":help":
			a.println(editorHelp)
		default:
			a.println("Unknown command; :help lists them")
		}
	}
}

func appendLine(content, line string) string {
	if content == "" {
		return line
	}
	return content + "\n" + line
}

func (a *app) printState(st editor.State) {
	id := st.ID
	if id == "" {
		id = "(unsaved)"
	}
	saved := "never"
	if !st.LastSaved.IsZero() {
		saved = st.LastSaved.Local().Format(time.TimeOnly)
	}
	a.printf("id: %s\ntitle: %s\ntags: %s\nlast saved: %s\n\n%s\n", id, st.Title, st.Tags, saved, st.Content)
}

func (a *app) uploadFile(cmd *cobra.Command, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return a.api.UploadImage(cmd.Context(), filepath.Base(path), f)
}
