package constants_test

import (
	"fmt"
	"path/filepath"

	"github.com/agentstation/refrecon/pkg/constants"
)

// Example demonstrates building the default source and output paths.
func Example() {
	src := filepath.Join(constants.DefaultDataDir, "user_referrals"+constants.SourceFileExt)
	fmt.Println(src)
	fmt.Println(constants.DefaultReportOutput)
	fmt.Printf("%o\n", constants.FilePermissions)
	// Output:
	// data/user_referrals.csv
	// output_report.csv
	// 644
}
