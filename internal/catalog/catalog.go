// Package catalog maps honesty categories and failed-assumption messages
// found in verification transcripts to plain-English explanations.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/josephgoksu/reachinspect/internal/ui"
)

// Built-in honesty categories.
const (
	HonestyAll = "ALL"
	HonestyNo  = "NO"
)

// Built-in failure messages.
const (
	MessageBalanceSufficient = "balance sufficient for transfer"
	MessageTokenDestroyed    = "token destroyed at application exit"
)

// Catalog holds the explanation tables. Lookups are exact string matches.
type Catalog struct {
	pal      ui.Palette
	honesty  map[string]string
	messages map[string]string
}

// New returns a Catalog holding the built-in explanations rendered with pal.
func New(pal ui.Palette) *Catalog {
	c := &Catalog{
		pal:      pal,
		honesty:  make(map[string]string),
		messages: make(map[string]string),
	}

	c.honesty[HonestyAll] = fmt.Sprintf("* %s participants were honest, meaning in this case "+
		"participants were abiding\n  %s and %s statements in your code's %s blocks\n",
		pal.Underline(label(HonestyAll)), pal.Cyan("check"), pal.Cyan("assume"), pal.Cyan(".only()"))

	c.honesty[HonestyNo] = fmt.Sprintf("* %s participants were honest, meaning in this case "+
		"participants weren't following any rules specified in %s blocks. That means they are only "+
		"limited by the checks (%s and %s) in your consensus step\n",
		pal.Underline(label(HonestyNo)), pal.Cyan(".only()"), pal.Cyan("require"), pal.Cyan("check"))

	c.messages[MessageBalanceSufficient] = fmt.Sprintf("* Failed assumption is %q\n"+
		"  This means, in this scenario, contract tried to spend funds that it didn't have\n",
		MessageBalanceSufficient)

	c.messages[MessageTokenDestroyed] = fmt.Sprintf("* Failed assumption is %q\n"+
		"  This means, in this scenario, token isn't destroyed before application finishes.\n"+
		"  In Reach contracts, if you create a token you have to destroy it before app closes\n",
		MessageTokenDestroyed)

	return c
}

// label turns an upper-case honesty key into the word shown in prose.
func label(key string) string {
	return cases.Title(language.English).String(strings.ToLower(key))
}

// Honesty returns the explanation for an honesty category, if known.
func (c *Catalog) Honesty(key string) (string, bool) {
	s, ok := c.honesty[key]
	return s, ok
}

// Message returns the explanation for a failed-assumption message, if known.
func (c *Catalog) Message(msg string) (string, bool) {
	s, ok := c.messages[msg]
	return s, ok
}

// ExplainHonesty returns the explanation for key, falling back to the
// single-party template. It never fails.
func (c *Catalog) ExplainHonesty(key string) string {
	if s, ok := c.Honesty(key); ok {
		return s
	}
	return GenericHonesty(key)
}

// ExplainMessage returns the explanation for msg, falling back to the
// generic failed-assumption template. It never fails.
func (c *Catalog) ExplainMessage(msg string) string {
	if s, ok := c.Message(msg); ok {
		return s
	}
	return GenericMessage(msg)
}

// GenericHonesty explains a category naming a single honest party.
func GenericHonesty(party string) string {
	return fmt.Sprintf("* Only %s was honest, meaning only %s followed the rules specified by the local block checks\n",
		party, party)
}

// GenericMessage explains a failed assumption with no catalog entry.
func GenericMessage(msg string) string {
	return fmt.Sprintf("* Failed assumption is \"%s\"\n", msg)
}

// HonestyKeys returns the known honesty categories, sorted.
func (c *Catalog) HonestyKeys() []string {
	return sortedKeys(c.honesty)
}

// MessageKeys returns the known failure messages, sorted.
func (c *Catalog) MessageKeys() []string {
	return sortedKeys(c.messages)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
