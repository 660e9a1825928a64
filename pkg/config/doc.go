/*
Package config manages rescale configuration parsing and validation for atlasscale.

	            +-------------+
	            |   Config    |
	            |  (widths,   |
	            |   rules)    |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Loads the widths that define the scale factor
- Names the capturing-group patterns whose numbers get scaled
- Describes where atlas files come from and where results go

🔄 Flow:
1. Reads configuration from file
2. Picks a parser by file extension
3. Validates values and fills in the default rules
4. Compiles rules into text.Rule values for the rewriter

📐 Defaults:
With no rules configured, the frame quadruple and size object patterns of the
reference scenario are used. Default() returns the whole reference scenario
(2413px wide reduced to 800px).

🔍 Example:

	cfg, err := config.Load(ctx, "atlasscale.hcl")
	if err != nil {
		return err
	}

	rules, err := cfg.TextRules()
	if err != nil {
		return err
	}

HCL files can reference frame_pattern, size_pattern, default_width_before and
default_width_after:

	width_before = default_width_before
	width_after  = 1024

	rule "frame" {
	  pattern = frame_pattern
	}
*/
package config
