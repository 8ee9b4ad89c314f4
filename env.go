package main

import "os"

// envDecsyncDirName is the environment variable overriding the decsync
// directory root, one rung below --decsync-dir in the override chain
// (§A.3), mirroring the teacher's ONEDRIVE_GO_SYNC_DIR convention.
const envDecsyncDirName = "DECSYNC_DIR"

func envDecsyncDir() string {
	return os.Getenv(envDecsyncDirName)
}
