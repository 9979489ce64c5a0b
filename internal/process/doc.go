// Package process starts renderer processes in their own process group and
// kills the whole group on timeout or cancellation.
//
// The draw.io desktop CLI is an Electron application that forks GPU and
// renderer helpers; killing only the direct child leaves them running.
package process
