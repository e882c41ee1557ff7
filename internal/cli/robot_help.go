package cli

import (
	"fmt"
	"io"
)

func hasRobotHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "--robot-help" || arg == "--robot-help=true" {
			return true
		}
	}
	return false
}

func writeRobotHelp(w io.Writer, version string) error {
	// keep: concise; copy-pasteable commands; stable section names
	_, err := fmt.Fprintf(w, `riskdesk %s Robot Help

Purpose
- pick a profile, browse or create its topics, track companies per topic
- the API is the system of record; nothing is stored locally

Selection (every command)
- --profile-id ID | --profile NAME   scope to a profile (id wins over name)
- --topic-id ID                      select a topic; its owner becomes the profile
- --nav FILE                         YAML/JSON {selectedProfileName, selectedProfileId, selectedTopicId}
- flags win over the --nav bundle

Profiles
- riskdesk profiles ls
- riskdesk profiles create NAME [--password PW]
- riskdesk profiles use ID|NAME

Topics
- riskdesk topics ls --profile-id ID
- riskdesk topics create NAME --profile-id ID -c COMPANY -c COMPANY
- riskdesk topics show [ID]          up to 6 company names

Companies
- riskdesk companies ls
- riskdesk companies select ID...

Automation / scripting
- -o json | -o yaml on every command
- RISKDESK_API_BASE_URL, RISKDESK_LOGGING_LEVEL override config
- exit 1 and "Error: ..." on stderr for any failure
`, version)
	return err
}
