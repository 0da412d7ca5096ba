// Package ui prints styled status lines for the command line.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	addStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	delStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func FileLine(w io.Writer, path string) {
	fmt.Fprintln(w, faintStyle.Render("read")+"   "+path)
}

func WroteLine(w io.Writer, path string) {
	fmt.Fprintln(w, okStyle.Render("wrote")+"  "+path)
}

func ErrorLine(w io.Writer, err error) {
	fmt.Fprintln(w, errStyle.Render("error")+"  "+err.Error())
}

// SummaryLine reports the size of a generated document.
func SummaryLine(w io.Writer, files, endpoints, groups int) {
	fmt.Fprintf(w, "documented %d endpoints in %d groups from %d files\n", endpoints, groups, files)
}

func AddedLine(w io.Writer, name string) {
	fmt.Fprintln(w, addStyle.Render("+")+" "+name)
}

func RemovedLine(w io.Writer, name string) {
	fmt.Fprintln(w, delStyle.Render("-")+" "+name)
}

func ServeLine(w io.Writer, url string) {
	fmt.Fprintln(w, okStyle.Render("serving")+"  "+url)
}
