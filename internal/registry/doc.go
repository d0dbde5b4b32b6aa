// Package registry manages the well-known setup storage location.
//
// The storage root (by default ~/.ros/setups) is a symlink to the directory
// actually holding the setups, so a machine can switch between storage
// volumes without changing any paths that tools hard-code:
//
//	~/.ros/setups -> /data/setups
//	    cell_a/
//	    cell_b/
//	    selected_setup        plain text file holding "cell_a"
//
// Older installations recorded the selection as a selected_setup symlink
// pointing at the setup directory. SelectedSetup still reads that form;
// SelectSetup replaces it with the text pointer.
package registry
