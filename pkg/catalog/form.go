package catalog

// formFunctions build UI dialogs.
var formFunctions = []Function{
	{
		Name:        "create_label",
		Signature:   "(string text) → FormLabel",
		Description: "Create a text label widget",
		Example:     `create_label("${1:Label text}")`,
	},
	{
		Name:        "create_textline",
		Signature:   "(string text?) → FormTextLine",
		Description: "Create a single-line text input widget",
		Example:     `create_textline("${1:}")`,
	},
	{
		Name:        "create_button",
		Signature:   "(string text) → FormButton",
		Description: "Create a button widget",
		Example:     `create_button("${1:Button}")`,
	},
	{
		Name:        "create_combo",
		Signature:   "() → FormCombo",
		Description: "Create a combo box (dropdown) widget",
		Example:     "create_combo()",
	},
	{
		Name:        "create_dialog",
		Signature:   "(string title) → FormDialog",
		Description: "Create a dialog window",
		Example:     `create_dialog("${1:Dialog Title}")`,
	},
	{
		Name:        "create_gridlayout",
		Signature:   "() → FormGridLayout",
		Description: "Create a grid layout for organizing widgets",
		Example:     "create_gridlayout()",
	},
	{
		Name:        "connect",
		Signature:   "(FormWidget widget, string signal, function callback) → void",
		Description: "Connect widget signal to callback function",
		Example:     "connect(${1:widget}, \"${2:clicked}\", function(${3:}) {\n\t${4:// Event handler}\n})",
	},
	{
		Name:        "prompt_open_file",
		Signature:   "(string caption?, string filter?) → string",
		Description: "Show file open dialog",
		Example:     `prompt_open_file("${1:Select file}", "${2:}")`,
	},
	{
		Name:        "prompt_open_dir",
		Signature:   "(string caption?) → string",
		Description: "Show directory selection dialog",
		Example:     `prompt_open_dir("${1:Select directory}")`,
	},
	{
		Name:        "prompt_save_file",
		Signature:   "(string filename, string caption?, string filter?) → string",
		Description: "Show file save dialog",
		Example:     `prompt_save_file("${1:filename}", "${2:Save file}", "${3:}")`,
	},
	{
		Name:        "copy_to_clipboard",
		Signature:   "(string text) → void",
		Description: "Copy text to client's clipboard",
		Example:     `copy_to_clipboard("${1:text}")`,
	},
}

// commandFunctions are called on AxCommand objects, e.g. cmd.addArgString.
var commandFunctions = []Function{
	{
		Name:        "addArgString",
		Signature:   "(string name, bool required, string defaultValue?) → void",
		Description: "Add a string argument to the AxCommand",
		Example:     `addArgString("${1:name}", ${2:true}, "${3:}")`,
	},
	{
		Name:        "addArgInt",
		Signature:   "(string name, bool required, int defaultValue?) → void",
		Description: "Add an integer argument to the AxCommand",
		Example:     `addArgInt("${1:name}", ${2:true}, ${3:0})`,
	},
	{
		Name:        "addArgFile",
		Signature:   "(string name, bool required) → void",
		Description: "Add a file argument to the AxCommand (reads file contents)",
		Example:     `addArgFile("${1:name}", ${2:true})`,
	},
	{
		Name:        "setPreHook",
		Signature:   "(function hook) → void",
		Description: "Set a pre-execution hook function for the AxCommand",
		Example:     "setPreHook(function (id, cmdline, parsed_json, ...parsed_lines) {\n\t${1:// Command logic here}\n})",
	},
}

// menuFunctions build context-menu actions.
var menuFunctions = []Function{
	{
		Name:        "create_action",
		Signature:   "(string name, function callback) → MenuAction",
		Description: "Create a menu action with callback function",
		Example:     "create_action(\"${1:Action Name}\", function(agents_id) {\n\t${2:// Action logic here}\n})",
	},
	{
		Name:        "add_session_access",
		Signature:   "(MenuAction action, string[] agentTypes) → void",
		Description: "Add menu action to session context menu",
		Example:     `add_session_access(${1:action}, [${2:"beacon"}])`,
	},
	{
		Name:        "add_processbrowser",
		Signature:   "(MenuAction action, string[] agentTypes, string[] osTypes) → void",
		Description: "Add menu action to process browser context menu",
		Example:     `add_processbrowser(${1:action}, [${2:"beacon"}], [${3:"windows"}])`,
	},
}
