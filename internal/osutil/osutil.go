// Package osutil holds platform names, exit codes and directory modes shared
// by the rest of the program
package osutil

const Windows = "windows"

type exitCode int

const (
	ExitOK    exitCode = 0
	ExitError exitCode = 1
)

// Code converts an exit code for os.Exit.
func (c exitCode) Code() int {
	return int(c)
}

const DirPermission = 0o755
