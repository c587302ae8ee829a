// Package webtest parses rendered web pages back into comparable values for tests.
package webtest

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Card is the observable content of one rendered member card.
type Card struct {
	Key         string
	ImageSrc    string
	ImageAlt    string
	Name        string
	Role        string
	Description string
}

// TeamPageDOM is the observable content of a rendered Team page.
type TeamPageDOM struct {
	Title       string
	Stylesheets []string
	Headings    []string
	Cards       []Card
}

// ParseTeamPage parses a full document or a fragment containing the team container.
func ParseTeamPage(r io.Reader) (TeamPageDOM, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return TeamPageDOM{}, fmt.Errorf("parse html: %w", err)
	}
	var dom TeamPageDOM
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.DataAtom == atom.Title:
				dom.Title = textContent(n)
			case n.DataAtom == atom.Link && attr(n, "rel") == "stylesheet":
				dom.Stylesheets = append(dom.Stylesheets, attr(n, "href"))
			case n.DataAtom == atom.H2:
				dom.Headings = append(dom.Headings, textContent(n))
			case n.DataAtom == atom.Div && hasClass(n, "team-member"):
				dom.Cards = append(dom.Cards, parseCard(n))
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return dom, nil
}

func parseCard(n *html.Node) Card {
	card := Card{Key: attr(n, "data-key")}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch {
		case child.DataAtom == atom.Img:
			card.ImageSrc = attr(child, "src")
			card.ImageAlt = attr(child, "alt")
		case child.DataAtom == atom.H3:
			card.Name = textContent(child)
		case child.DataAtom == atom.P && hasClass(child, "team-member-role"):
			card.Role = textContent(child)
		case child.DataAtom == atom.P && hasClass(child, "team-member-description"):
			card.Description = textContent(child)
		}
	}
	return card
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}
