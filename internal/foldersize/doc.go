// Package foldersize computes disk usage for a fixed set of well-known folders
// under the user's home directory.
//
// Each folder is measured by an explicit work-list traversal that absorbs
// listing and stat failures, and folders are measured concurrently with a
// bounded number of scans in flight. Results are always returned in the
// declaration order of the folder list.
package foldersize
