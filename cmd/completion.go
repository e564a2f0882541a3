package cmd

import (
	"errors"
	"fmt"
	"strings"
)

var commandNames = []string{
	"add", "edit", "status", "rm", "ls", "stats", "tui",
	"doctor", "config", "completion", "version", "help",
}

// completionCommand prints a shell completion script.
func completionCommand(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: taskeasy completion <bash|zsh|fish>")
	}
	commands := strings.Join(commandNames, " ")
	statuses := strings.Join(statusNames(), " ")

	switch args[0] {
	case "bash":
		fmt.Printf(`# taskeasy bash completion
_taskeasy() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    case "$prev" in
        ls|-s|--status)
            COMPREPLY=($(compgen -W "%s" -- "$cur"))
            return ;;
        -p|--priority)
            COMPREPLY=($(compgen -W "%s" -- "$cur"))
            return ;;
    esac
    if [ "$COMP_CWORD" -eq 1 ]; then
        COMPREPLY=($(compgen -W "%s" -- "$cur"))
    fi
}
complete -F _taskeasy taskeasy
`, statuses, strings.Join(priorityNames(), " "), commands)
	case "zsh":
		fmt.Printf(`#compdef taskeasy
# taskeasy zsh completion
_taskeasy() {
    if (( CURRENT == 2 )); then
        compadd -- %s
    elif [[ ${words[2]} == ls ]]; then
        compadd -- %s
    fi
}
compdef _taskeasy taskeasy
`, commands, statuses)
	case "fish":
		fmt.Printf(`# taskeasy fish completion
complete -c taskeasy -f -n "__fish_use_subcommand" -a "%s"
complete -c taskeasy -f -n "__fish_seen_subcommand_from ls" -a "%s"
complete -c taskeasy -f -s p -l priority -a "%s"
`, commands, statuses, strings.Join(priorityNames(), " "))
	default:
		return fmt.Errorf("unsupported shell %q (expected bash, zsh, or fish)", args[0])
	}
	return nil
}
