// Package config provides configuration parsing for the vform CLI.
//
// The configuration is stored in vform.json in the working directory. Every
// setting has a default, so the file is optional; command line flags
// override whatever it contains.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  },
//	  "playground": {
//	    "host": "localhost",
//	    "port": 4400
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "vform",
//	    "path": "/metrics"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "vform"
//	  },
//	  "prompt": {
//	    "maxAttempts": 3,
//	    "noConfirm": false
//	  },
//	  "output": "text"
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println("Playground:", cfg.PlaygroundAddress())
package config
