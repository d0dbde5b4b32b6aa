// Package config loads the calman tool configuration.
//
// The configuration lives in ~/.config/calman/config.yaml. Every field is
// optional; a missing file yields the defaults:
//
//	storage: ~/.ros/setups
//	logging:
//	  level: info
//	  format: text
//	parameters:
//	  sink: none             # none, log or configmap
//	  namespace: ""          # "" publishes nothing, "default" uses /<setup>/<component>
//	  configMapNamespace: default
//	output: table            # table, json or yaml
package config
