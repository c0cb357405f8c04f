/*
 * Copyright 2025 Olake By Datazip
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package protocol

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/datazip-inc/olake-hydrator/featureflag"
	"github.com/datazip-inc/olake-hydrator/hydrator"
	"github.com/datazip-inc/olake-hydrator/secrets"
	"github.com/datazip-inc/olake-hydrator/store"
	"github.com/datazip-inc/olake-hydrator/types"
	"github.com/datazip-inc/olake-hydrator/utils"
	"github.com/datazip-inc/olake-hydrator/utils/logger"
	"github.com/datazip-inc/olake-hydrator/utils/safego"
)

const taskQueueDrainTimeout = 5 * time.Second

var activityInput *types.ReplicationActivityInput

// hydrateCmd builds the replication input for one sync attempt
var hydrateCmd = &cobra.Command{
	Use:   "hydrate",
	Short: "hydrate a replication activity input",
	Example: `
olake-hydrator hydrate --config path/to/config.yaml --input path/to/activity.yaml --output replication_input.json
`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if inputPath == "" {
			return fmt.Errorf("--input not passed")
		}

		activityInput = &types.ReplicationActivityInput{}
		return utils.UnmarshalFile(inputPath, activityInput, true)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		v := viper.GetViper()

		config, err := loadConfig(v)
		if err != nil {
			return err
		}

		db, err := store.Open(ctx, &config.Store)
		if err != nil {
			return err
		}
		defer db.Close()

		flags, err := featureflag.New(v)
		if err != nil {
			return fmt.Errorf("failed to load feature flags: %s", err)
		}

		cipher, err := newCipher(ctx, v)
		if err != nil {
			return err
		}

		resolver, err := secrets.NewResolver(ctx, &config.Secrets, cipher)
		if err != nil {
			return err
		}

		queue := safego.NewTaskQueue(ctx, config.TaskQueueSize)
		defer queue.Shutdown(taskQueueDrainTimeout)

		opts := []hydrator.Option{hydrator.WithRetryPolicy(config.Retry), hydrator.WithTaskQueue(queue)}
		if config.RuntimeSecrets != nil {
			runtimeResolver, err := secrets.NewResolver(ctx, config.RuntimeSecrets, cipher)
			if err != nil {
				return err
			}
			opts = append(opts, hydrator.WithRuntimeSecretHydrator(secrets.NewConfigHydrator(runtimeResolver)))
		}

		h := hydrator.New(db, db, db, secrets.NewConfigHydrator(resolver), flags, opts...)
		replicationInput, err := h.Hydrate(ctx, activityInput)
		if err != nil {
			logger.Errorf("hydration failed [%s]: %s", types.KindOf(err), err)
			return err
		}

		return writeJSON(cmd, outputPath, replicationInput)
	},
}

func init() {
	hydrateCmd.Flags().StringVarP(&inputPath, "input", "", "", "(Required) Replication activity input file (yaml or json)")
}
