// animsim runs skeletal animation rigs headlessly: it plays a rig's input
// script through the transition graph and prints or dumps what each
// character samples.
package main

func main() {
	Execute()
}
