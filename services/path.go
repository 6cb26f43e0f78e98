package services

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Logical paths are team-relative, "/"-separated, with "/" as the team root.
// The team id itself is the root segment of the remote key namespace, so a
// file at logical path "/docs/report.pdf" in team 7 lives under remote key
// "7/docs/report.pdf".

func buildChildPath(parentPath, childName string) string {
	if parentPath == "" || parentPath == "/" {
		return "/" + childName
	}
	return strings.TrimRight(parentPath, "/") + "/" + childName
}

func splitLogicalPath(logicalPath string) []string {
	trimmed := strings.Trim(logicalPath, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func remoteKeyForPath(teamID uint, logicalPath string) string {
	root := strconv.FormatUint(uint64(teamID), 10)
	if logicalPath == "" || logicalPath == "/" {
		return root
	}
	return root + "/" + strings.Trim(logicalPath, "/")
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	replacer := strings.NewReplacer("..", "_", "/", "_", "\\", "_")
	return replacer.Replace(name)
}
