/*
Package config loads and persists tabmigrate configuration.

	            +-------------+
	            |   Config    |
	            | (immutable) |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|   env   |   |  YAML   |   |   HCL   |
	| Format  |   | Format  |   | Format  |
	+---------+   +---------+   +---------+

🎯 Purpose:
  - Reads connection profiles for the source server (TS_*) and the
    destination cloud site (TC_*)
  - Reads the destination project and the update criteria
  - Writes the selected destination project back into the same file

🔄 Flow:
1. The file extension picks a Format (.yaml/.yml, .hcl, anything else is env)
2. The Format flattens the file into canonical keys (TS_SERVER, TC_PROJECT_ID, ...)
3. Process environment variables override file values
4. FromValues validates required keys and returns an immutable *Config

A Config is never mutated after Load. SetProjectID rewrites the backing file
and hands back a new value.
*/
package config
