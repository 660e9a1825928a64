/*
Package operation applies rescale rules to atlas files.

	+-------------+
	|   Inputs    |
	| (paths,     |
	|  globs, -)  |
	+------+------+
	       |
	+------+------+
	|  Rewriter   |
	| (text.Rule) |
	+------+------+
	       |
	+------+------+
	|   Output    |
	| (stdout,    |
	|  dir, file) |
	+-------------+

🎯 Purpose:
- Resolves input paths and doublestar globs into a sorted file list
- Runs the configured rules over each file through a text.TextRewriter
- Writes results to stdout, an output directory, or back in place

🔄 Flow:
1. ResolveInputs expands globs and drops duplicates
2. Each input becomes one Operation
3. OperationRunner runs them one by one, or concurrently when async is set
4. Results are logged per rule and summarised

⚡ Failure:
A rewrite either completes or writes nothing. Files are written through a
temporary file and renamed into place, so a failed rewrite never leaves a
truncated atlas behind. In async mode the first failure cancels the rest.

🔍 Example:

	op, err := operation.NewRescaleOperation(operation.Options{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	if err := operation.NewRunner(zerolog.Ctx(ctx), false).Run(ctx, op); err != nil {
		return err
	}

	fmt.Println(op.Summary())
*/
package operation
