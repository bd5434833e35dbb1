package catalog

// scriptObjects are the identifiers offered when nothing has been dotted yet.
var scriptObjects = []Object{
	{
		Namespace:   Global,
		Detail:      "AxScript built-in object",
		Description: "Built-in AXScript object containing all AdaptixC2 scripting functions",
	},
	{
		Namespace:   Form,
		Detail:      "AxScript form object",
		Description: "Built-in form object for creating UI dialogs and widgets",
	},
	{
		Namespace:   Menu,
		Detail:      "AxScript menu object",
		Description: "Built-in menu object for creating context menu actions",
	},
}

// axsCategories is the "ax" object vocabulary.
// New functions go into the matching category, or a new one at the end.
var axsCategories = []Category{
	{
		Name: "Agent Management",
		Functions: []Function{
			{
				Name:        "agents",
				Signature:   "() → AGENT[id]",
				Description: "Get information about all agents calling back to the Adaptix teamserver",
				Example:     "agents()",
			},
			{
				Name:        "agent_info",
				Signature:   "(string id, string property) → any",
				Description: "Get information from an agent session's metadata",
				Example:     `agent_info("${1:id}", "${2:property}")`,
			},
			{
				Name:        "agent_set_color",
				Signature:   "(string[] ids, string background, string foreground, bool reset) → void",
				Description: "Set color for agent's item in Session Table",
				Example:     `agent_set_color([${1:"id"}], "${2:background}", "${3:foreground}", ${4:false})`,
			},
			{
				Name:        "arch",
				Signature:   "(string id) → string",
				Description: "Get agent architecture information (x86 or x64)",
				Example:     `arch("${1:id}")`,
			},
			{
				Name:        "is64",
				Signature:   "(string id) → bool",
				Description: "Check if agent session is running on 64-bit system",
				Example:     `is64("${1:id}")`,
			},
			{
				Name:        "isadmin",
				Signature:   "(string id) → bool",
				Description: "Check if agent session has administrative rights",
				Example:     `isadmin("${1:id}")`,
			},
			{
				Name:        "agent_set_impersonation",
				Signature:   "(string id, string impersonate, bool elevated) -> void",
				Description: "Set impersonate for agent's item in Session Table",
				Example:     `agent_set_impersonation("${1:id}", "${2:impersonate}", ${3:true})`,
			},
			{
				Name:        "agent_set_mark",
				Signature:   "(string id, string mark) -> void",
				Description: "Set mark for agent's item in Session Table",
				Example:     `agent_set_mark("${1:id}", "${2:Inactive}")`,
			},
			{
				Name:        "agent_set_tag",
				Signature:   "(string id, string tag) -> void",
				Description: "Set tag for agent's item in Session Table",
				Example:     `agent_set_tag("${1:id}", "${2:tag}")`,
			},
		},
	},
	{
		Name: "File Operations",
		Functions: []Function{
			{
				Name:        "file_read",
				Signature:   "(string path) → string",
				Description: "Read file contents and return as base64",
				Example:     `file_read("${1:path}")`,
			},
			{
				Name:        "file_exists",
				Signature:   "(string path) → bool",
				Description: "Check if specified file exists",
				Example:     `file_exists("${1:path}")`,
			},
			{
				Name:        "file_basename",
				Signature:   "(string path) → string",
				Description: "Extract filename from full path",
				Example:     `file_basename("${1:path}")`,
			},
		},
	},
	{
		Name: "Logging",
		Functions: []Function{
			{
				Name:        "log",
				Signature:   "(string text) → void",
				Description: "Print text to AxScript Console",
				Example:     `log("${1:message}")`,
			},
			{
				Name:        "log_error",
				Signature:   "(string text) → void",
				Description: "Print error text to AxScript Console",
				Example:     `log_error("${1:error}")`,
			},
			{
				Name:        "show_message",
				Signature:   "(string title, string text) → void",
				Description: "Display message dialog",
				Example:     `show_message("${1:title}", "${2:message}")`,
			},
		},
	},
	{
		Name: "Commands",
		Functions: []Function{
			{
				Name:        "create_command",
				Signature:   "(string name, string description, string example?) → AxCommand",
				Description: "Create an AxCommand object for custom console commands",
				Example:     `create_command("${1:name}", "${2:description}", "${3:example}")`,
			},
			{
				Name:        "execute_command",
				Signature:   "(string id, string command) → void",
				Description: "Execute a command and save to agent console",
				Example:     `execute_command("${1:id}", "${2:command}")`,
			},
			{
				Name:        "execute_alias",
				Signature:   "(string id, string cmdline, string new_cmd, string task_description) → void",
				Description: "Execute a command with custom console display",
				Example:     `execute_alias("${1:id}", "${2:cmdline}", "${3:new_cmd}", "${4:description}")`,
			},
			{
				Name:        "bof_pack",
				Signature:   "(string types, any[] args) → string",
				Description: "Pack arguments for BOF (Beacon Object File) APIs",
				Example:     `bof_pack("${1:types}", [${2:args}])`,
			},
		},
	},
	{
		Name: "System Info",
		Functions: []Function{
			{
				Name:        "ticks",
				Signature:   "() → int",
				Description: "Get current UNIX Epoch Time value as integer",
				Example:     "ticks()",
			},
			{
				Name:        "format_time",
				Signature:   "(string format, int unixtime) → string",
				Description: "Format UNIX timestamp to readable string",
				Example:     `format_time("${1:dd/MM/yyyy hh:mm:ss}", ${2:unixtime})`,
			},
			{
				Name:        "script_dir",
				Signature:   "() → string",
				Description: "Get current script directory",
				Example:     "script_dir()",
			},
		},
	},
	{
		Name: "System & Network",
		Functions: []Function{
			{
				Name:        "interfaces",
				Signature:   "() → string[]",
				Description: "Get list of network interfaces on the teamserver",
				Example:     "interfaces()",
			},
		},
	},
	{
		Name: "Console",
		Functions: []Function{
			{
				Name:        "console_message",
				Signature:   "(string id, string message, string type?, string text?) → void",
				Description: "Print message to agent console",
				Example:     `console_message("${1:id}", "${2:message}", "${3:}", "${4:}")`,
			},
		},
	},
	{
		Name: "Credential Management",
		Functions: []Function{
			{
				Name:        "credentials",
				Signature:   "() → CRED[id]",
				Description: "Get all stored credentials",
				Example:     "credentials()",
			},
			{
				Name:        "credentials_add",
				Signature:   "(string username, string password, string realm?, string type?, string tag?, string storage?, string host?) → void",
				Description: "Add credentials to Credentials Manager",
				Example:     `credentials_add("${1:username}", "${2:password}", "${3:realm}", "${4:password}", "${5:tag}", "${6:manual}", "${7:host}")`,
			},
		},
	},
	{
		Name: "Command & Script",
		Functions: []Function{
			{
				Name:        "create_commands_group",
				Signature:   "(string name, AxCommand[] commands) → AxCommandsGroup",
				Description: "Create a group of AxCommand objects",
				Example:     `create_commands_group("${1:name}", [${2:commands}])`,
			},
			{
				Name:        "register_commands_group",
				Signature:   "(AxCommandsGroup group, string[] agents, string[] os, string[] listeners) → void",
				Description: "Register a command group with specific agents/OS/listeners",
				Example:     `register_commands_group(${1:group}, [${2:"beacon"}], [${3:"windows"}], [${4:}])`,
			},
			{
				Name:        "execute_browser",
				Signature:   "(string id, string command) → void",
				Description: "Execute a command without saving to console",
				Example:     `execute_browser("${1:id}", "${2:command}")`,
			},
			{
				Name:        "script_import",
				Signature:   "(string path) → string",
				Description: "Import another AxScript into current script's environment",
				Example:     `script_import("${1:path}")`,
			},
			{
				Name:        "script_load",
				Signature:   "(string path) → string",
				Description: "Load new script to AxScript Manager",
				Example:     `script_load("${1:path}")`,
			},
			{
				Name:        "script_unload",
				Signature:   "(string path) → string",
				Description: "Unload script from AxScript Manager",
				Example:     `script_unload("${1:path}")`,
			},
		},
	},
	{
		Name: "Browser & Terminal",
		Functions: []Function{
			{
				Name:        "open_agent_console",
				Signature:   "(string id) → void",
				Description: "Open agent console",
				Example:     `open_agent_console("${1:id}")`,
			},
			{
				Name:        "open_remote_terminal",
				Signature:   "(string id) → void",
				Description: "Open Interactive Terminal for specific agent",
				Example:     `open_remote_terminal("${1:id}")`,
			},
			{
				Name:        "open_browser_process",
				Signature:   "(string id) → void",
				Description: "Open process browser for an agent",
				Example:     `open_browser_process("${1:id}")`,
			},
			{
				Name:        "open_browser_files",
				Signature:   "(string id) → void",
				Description: "Open file browser for an agent",
				Example:     `open_browser_files("${1:id}")`,
			},
		},
	},
}
