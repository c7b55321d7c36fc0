package service

import "fmt"

func welcomeEmailTemplate(username, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Set your first goal, post your progress and keep the streak alive.

Best,
The %s Team`, username, appName)

	return subject, body
}

func friendRequestEmailTemplate(username, fromUsername, appName string) (string, string) {
	subject := fmt.Sprintf("%s wants to be your friend on %s", fromUsername, appName)
	body := fmt.Sprintf(`Hi %s,

%s sent you a friend request. Open the app to accept it and see each other's progress.

You can turn off these emails in your notification settings.

Best,
The %s Team`, username, fromUsername, appName)

	return subject, body
}

func friendAcceptedEmailTemplate(username, friendUsername, appName string) (string, string) {
	subject := fmt.Sprintf("%s accepted your friend request", friendUsername)
	body := fmt.Sprintf(`Hi %s,

%s accepted your friend request. Their posts now show up in your feed.

You can turn off these emails in your notification settings.

Best,
The %s Team`, username, friendUsername, appName)

	return subject, body
}

func accountDeletedEmailTemplate(username, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account has been deleted", appName)
	body := fmt.Sprintf(`Hi %s,

Your account, goals, posts and friendships have been permanently deleted.

If this wasn't you, please contact us immediately.

Best,
The %s Team`, username, appName)

	return subject, body
}

func streakReminderEmailTemplate(username, goalTitle string, hoursLeft int, appName string) (string, string) {
	unit := "hours"
	if hoursLeft == 1 {
		unit = "hour"
	}
	subject := fmt.Sprintf("%s: %d %s left on your streak", goalTitle, hoursLeft, unit)
	body := fmt.Sprintf(`Hi %s,

Your streak on "%s" expires in %d %s. Post now to keep it alive!

You can turn off these emails in your notification settings.

Best,
The %s Team`, username, goalTitle, hoursLeft, unit, appName)

	return subject, body
}
