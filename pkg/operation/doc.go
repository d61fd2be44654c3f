/*
Package operation shifts PathPlanner path files in place.

	+-------------+
	|  Operation  |
	| (Batch)     |
	+------+------+
	       |
	+------+------+
	|   Process   |
	| (Per file)  |
	+------+------+

🎯 Purpose:
- Selects path files in a directory by name prefix
- Reads each file's heading from goalEndState.rotation
- Turns (distance, heading) into a translation and moves every waypoint
- Hands the re-encoded document to the status package for writing

🔄 Flow:
1. selector.Select opens the matching files read-write
2. pathfile.Parse builds the partial document
3. geometry.Transform computes the delta
4. Document.Translate moves anchors and control points
5. status.Manager rewrites the file (or only reports it in a dry run)

⚡ Rules:
- Files are processed one at a time, in selection order
- The first failure stops the batch; earlier files stay shifted
- Shifting is not idempotent: running twice shifts twice
- ctx is checked between files, never during a write

🔍 Example:

	op := operation.NewShiftOperation(operation.Options{
		Directory: "deploy/pathplanner/paths",
		Targets:   []string{"a"},
		Distance:  2,
	})
	err := operation.NewRunner(&logger).Run(ctx, op)
*/
package operation
