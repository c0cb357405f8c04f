package protocol

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/datazip-inc/olake-hydrator/state"
	"github.com/datazip-inc/olake-hydrator/types"
)

const (
	formatInternal = "internal"
	formatAPI      = "api"
	formatProtocol = "protocol"
)

// convertStateCmd translates a checkpoint between the internal, API and protocol formats
var convertStateCmd = &cobra.Command{
	Use:   "convert-state",
	Short: "convert connection state between formats",
	Example: `
olake-hydrator convert-state --state path/to/state.json --from internal --to protocol
olake-hydrator convert-state --state path/to/api_state.json --from api --to internal
`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if statePath == "" {
			return fmt.Errorf("--state not passed")
		}

		data, err := os.ReadFile(filepath.Clean(statePath))
		if err != nil {
			return fmt.Errorf("failed to read file[%s]: %s", statePath, err)
		}

		current, err := decodeState(data, stateFrom)
		if err != nil {
			return err
		}

		switch stateTo {
		case formatInternal:
			return writeJSON(cmd, outputPath, types.NewStateDocument(current))
		case formatAPI:
			id := uuid.Nil
			if connectionID != "" {
				if id, err = uuid.Parse(connectionID); err != nil {
					return fmt.Errorf("invalid --connection-id: %s", err)
				}
			}
			return writeJSON(cmd, outputPath, state.ToAPI(id, current))
		case formatProtocol:
			messages := state.ToMessages(current)
			if messages == nil {
				messages = []state.StateMessage{}
			}
			return writeJSON(cmd, outputPath, messages)
		default:
			return fmt.Errorf("unsupported --to format[%s]", stateTo)
		}
	},
}

func decodeState(data []byte, format string) (types.StateWrapper, error) {
	switch format {
	case formatInternal:
		doc := &types.StateDocument{}
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, types.NewValidationError("failed to decode state: %s", err)
		}
		return doc.Wrapper()
	case formatAPI:
		api, err := state.ParseConnectionState(data)
		if err != nil {
			return nil, err
		}
		return state.ToInternal(api), nil
	case formatProtocol:
		messages, err := state.ParseMessages(data)
		if err != nil {
			return nil, err
		}
		return state.FromMessages(messages), nil
	default:
		return nil, fmt.Errorf("unsupported --from format[%s]", format)
	}
}

func init() {
	convertStateCmd.Flags().StringVarP(&statePath, "state", "", "", "(Required) State file")
	convertStateCmd.Flags().StringVarP(&stateFrom, "from", "", formatInternal, "Input format: internal, api or protocol")
	convertStateCmd.Flags().StringVarP(&stateTo, "to", "", formatProtocol, "Output format: internal, api or protocol")
	convertStateCmd.Flags().StringVarP(&connectionID, "connection-id", "", "", "(Optional) Connection id stamped on api output")
}
