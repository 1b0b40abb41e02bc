package md2book_test

import (
	"fmt"
	"os"
	"strings"

	md2book "github.com/alnah/go-md2book"
)

// Example writes a one-chapter book as combined Markdown.
func Example() {
	book := &md2book.Book{
		Metadata: md2book.Metadata{Title: "A Short Book", Author: "Ada Lovelace"},
		Chapters: []md2book.Chapter{
			{Index: 1, Title: md2book.ChapterTitle("01_intro.md"), Source: "Hello."},
		},
	}

	if err := md2book.WriteCombined(book, os.Stdout); err != nil {
		fmt.Println("error:", err)
	}
	// Output:
	// # A Short Book
	//
	// *By Ada Lovelace*
	//
	// ---
	//
	// ## Chapter 1: 01 Intro
	//
	// Hello.
	//
	// ---
}

// ExampleSplitCombined recovers the chapters of a combined file.
func ExampleSplitCombined() {
	book := &md2book.Book{
		Metadata: md2book.Metadata{Title: "Notes", Author: "Grace Hopper"},
		Chapters: []md2book.Chapter{
			{Index: 1, Title: "Start", Source: "First.\n"},
			{Index: 2, Title: "End", Source: "Second.\n"},
		},
	}
	var sb strings.Builder
	if err := md2book.WriteCombined(book, &sb); err != nil {
		fmt.Println("error:", err)
		return
	}

	c, err := md2book.SplitCombined(sb.String())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(c.Title, "by", c.Author)
	for _, ch := range c.Chapters {
		fmt.Printf("%s %q\n", ch.Heading(), ch.Source)
	}
	// Output:
	// Notes by Grace Hopper
	// Chapter 1: Start "First.\n"
	// Chapter 2: End "Second.\n"
}

// ExampleOutputBaseName shows how output files are named after the title.
func ExampleOutputBaseName() {
	fmt.Println(md2book.OutputBaseName("Go in Action: Second-Edition"))
	// Output: go_in_action_second_edition
}
