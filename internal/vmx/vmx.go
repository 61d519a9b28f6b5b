// Package vmx holds the few line-oriented edits and lookups we perform on
// VMware configuration files. The format is not parsed: lines we do not
// touch pass through byte for byte.
package vmx

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// Keys written into a cloned VM's configuration.
const (
	RemindInstallLine = `tools.remindInstall = "FALSE"`
	UUIDActionLine    = `uuid.action = "create"`
)

var (
	firstGeneratedAddress = regexp.MustCompile(`^ethernet0\.generatedAddress\s*=\s*"([^"]*)"`)

	remindInstallLine    = regexp.MustCompile(`(?m)^tools\.remindInstall.*(?:\n|$)`)
	uuidActionLine       = regexp.MustCompile(`(?m)^uuid\.action.*(?:\n|$)`)
	generatedAddressLine = regexp.MustCompile(`(?m)^ethernet.+generatedAddress.*(?:\n|$)`)
)

// GeneratedAddress returns the MAC address VMware generated for the first
// network adapter, if the configuration declares one.
func GeneratedAddress(r io.Reader) (string, bool) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := firstGeneratedAddress.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		if m[1] == "" {
			return "", false
		}
		return m[1], true
	}
	return "", false
}

// RewriteForClone removes the settings that would make a copied VM prompt
// about VMware Tools, reuse the source identity, or keep the source MAC
// addresses, and then pins the tools reminder off and the UUID action to
// "create".
func RewriteForClone(content string) string {
	content = remindInstallLine.ReplaceAllString(content, "")
	content = strings.TrimSpace(uuidActionLine.ReplaceAllString(content, ""))
	content = strings.TrimSpace(generatedAddressLine.ReplaceAllString(content, ""))

	var b strings.Builder
	b.WriteString(content)
	b.WriteString("\n")
	b.WriteString(RemindInstallLine)
	b.WriteString("\n")
	b.WriteString(UUIDActionLine)
	b.WriteString("\n")
	return b.String()
}

// ReplaceName substitutes to for every occurrence of the name from. An
// occurrence glued to surrounding word characters, or following a dot, is
// part of another word or an extension and is left alone: with from "vm",
// "vm.vmdk" becomes "web.vmdk" and "vmxPathName" is kept.
func ReplaceName(content []byte, from, to string) []byte {
	s := string(content)
	idx := nameIndexes(s, from)
	if len(idx) == 0 {
		return content
	}

	var b strings.Builder
	last := 0
	for _, i := range idx {
		b.WriteString(s[last:i])
		b.WriteString(to)
		last = i + len(from)
	}
	b.WriteString(s[last:])
	return []byte(b.String())
}

// ContainsName reports whether s holds name as a standalone occurrence, in
// the sense of ReplaceName.
func ContainsName(s, name string) bool {
	return len(nameIndexes(s, name)) > 0
}

func nameIndexes(s, name string) []int {
	if name == "" {
		return nil
	}

	var idx []int
	for i := 0; i <= len(s)-len(name); {
		j := strings.Index(s[i:], name)
		if j < 0 {
			break
		}
		j += i
		end := j + len(name)

		before := j == 0 || !(isWordByte(s[j-1]) || s[j-1] == '.')
		after := end == len(s) || !isWordByte(s[end])
		if before && after {
			idx = append(idx, j)
			i = end
		} else {
			i = j + 1
		}
	}
	return idx
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z')
}

// sniffLen matches the block size text/binary heuristics commonly inspect.
const sniffLen = 8000

// IsBinary guesses whether data is binary: a NUL byte, or more than 30%
// control characters in the leading block. Empty data is text.
func IsBinary(data []byte) bool {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	if len(data) == 0 {
		return false
	}

	var odd int
	for _, c := range data {
		switch {
		case c == 0:
			return true
		case c == '\n', c == '\r', c == '\t', c == '\f', c == '\b', c == 0x1b:
		case c < 0x20, c == 0x7f:
			odd++
		}
	}
	return odd*10 > len(data)*3
}
