/*
Package config resolves the inputs of a shift run.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +-----------+-----------+-----------+
	      |           |           |           |
	+-----+-----+ +---+---+ +-----+-----+ +---+---+
	|   JSON    | | YAML  | |    HCL    | | Args  |
	+-----------+ +-------+ +-----------+ +-------+

🔄 Precedence (later wins):
1. Config file (--config), format by extension
2. FOLDER_FILEPATH for the directory
3. --dir flag
4. Positional arguments: targets, amount, sideways

⚡ Parsing rules:
- targets split on ",", trimmed, empty segments dropped
- an amount that is not a number is 0 (logged at warn)
- sideways follows strconv.ParseBool; anything else is false
- unknown keys in a config file are an error

Every failure is an errcode.Configuration error.

🔍 Example:

	cfg, err := config.Load(ctx, "pathshift.hcl")
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.Getenv)
	cfg.ApplyArgs(ctx, args)
	if err := cfg.Validate(true); err != nil {
		return err
	}

	# pathshift.hcl
	directory = env.FOLDER_FILEPATH
	targets   = ["a", "b"]
	amount    = 0.5
	ignore    = ["*.bak"]
*/
package config
