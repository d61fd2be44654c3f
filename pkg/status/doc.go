/*
Package status owns the file I/O of a shift run and reports its outcome.

	            +-------------+
	            |   Status    |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           |  Logs   |
	| (rewrite) |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Reads a selected path file through its open handle
- Rewrites it in place (rewind, truncate, write, sync)
- Writes optional ".bak" copies atomically
- Tracks per-file outcomes in the order files were processed

🤝 Interfaces:
- FileManager: file operations
- StatusReporter: outcome tracking and progress
- FileFormatter: message phrasing

🔍 Example:

	mgr := status.NewManager(nil)

	content, err := mgr.ReadAll(ctx, target)
	// ...
	err = mgr.Rewrite(ctx, target, shifted)

	mgr.TrackFile(ctx, status.Written(status.FileInfo{
		Path:   target.Path,
		Status: status.StatusShifted,
	}, shifted))
*/
package status
