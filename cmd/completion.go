package cmd

import (
	"fmt"
	"strings"
)

const commandWords = "tui ls add rm edit done export reset session logs config completion version help"

const bashCompletion = `# todo bash completion
_todo() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    case "$prev" in
        session) COMPREPLY=($(compgen -W "show path ls clear" -- "$cur")); return ;;
        config) COMPREPLY=($(compgen -W "show example" -- "$cur")); return ;;
        completion) COMPREPLY=($(compgen -W "bash zsh fish powershell" -- "$cur")); return ;;
        --storage) COMPREPLY=($(compgen -W "file sqlite memory" -- "$cur")); return ;;
        --on-corrupt) COMPREPLY=($(compgen -W "fail reset" -- "$cur")); return ;;
        --format) COMPREPLY=($(compgen -W "json yaml" -- "$cur")); return ;;
    esac
    COMPREPLY=($(compgen -W "%s" -- "$cur"))
}
complete -F _todo todo
`

const zshCompletion = `#compdef todo
# todo zsh completion
_todo() {
    local -a commands
    commands=(%s)
    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi
    case "$words[2]" in
        session) _values 'action' show path ls clear ;;
        config) _values 'action' show example ;;
        completion) _values 'shell' bash zsh fish powershell ;;
        export) _arguments '--format[output format]:format:(json yaml)' ;;
    esac
}
_todo "$@"
`

const fishCompletion = `# todo fish completion
complete -c todo -f
complete -c todo -n '__fish_use_subcommand' -a '%s'
complete -c todo -n '__fish_seen_subcommand_from session' -a 'show path ls clear'
complete -c todo -n '__fish_seen_subcommand_from config' -a 'show example'
complete -c todo -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish powershell'
complete -c todo -n '__fish_seen_subcommand_from export' -l format -a 'json yaml'
complete -c todo -l storage -a 'file sqlite memory'
complete -c todo -l on-corrupt -a 'fail reset'
`

const powershellCompletion = `# todo PowerShell completion
Register-ArgumentCompleter -Native -CommandName todo -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)
    '%s'.Split(' ') |
        Where-Object { $_ -like "$wordToComplete*" } |
        ForEach-Object { [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_) }
}
`

// completionCommand prints a completion script for a shell.
func completionCommand(args []string) error {
	if len(args) != 1 {
		return usageErrorf("usage: todo completion <bash|zsh|fish|powershell>")
	}

	switch strings.ToLower(args[0]) {
	case "bash":
		fmt.Printf(bashCompletion, commandWords)
	case "zsh":
		fmt.Printf(zshCompletion, commandWords)
	case "fish":
		fmt.Printf(fishCompletion, commandWords)
	case "powershell", "pwsh":
		fmt.Printf(powershellCompletion, commandWords)
	default:
		return usageErrorf("unsupported shell: %s", args[0])
	}
	return nil
}
